package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// tiffWithDate builds a little-endian TIFF block whose Exif sub-IFD holds a
// single ASCII date tag.
func tiffWithDate(tag uint16, date string) []byte {
	const (
		ifd0Offset = 8
		exifOffset = ifd0Offset + 2 + 12 + 4
		dataOffset = exifOffset + 2 + 12 + 4
	)
	value := append([]byte(date), 0)

	var buf bytes.Buffer
	le := binary.LittleEndian
	write := func(v any) { _ = binary.Write(&buf, le, v) }

	buf.WriteString("II")
	write(uint16(42))
	write(uint32(ifd0Offset))

	// IFD0: ExifIFDPointer
	write(uint16(1))
	write(uint16(0x8769))
	write(uint16(4)) // LONG
	write(uint32(1))
	write(uint32(exifOffset))
	write(uint32(0))

	// Exif IFD: the date
	write(uint16(1))
	write(tag)
	write(uint16(2)) // ASCII
	write(uint32(len(value)))
	write(uint32(dataOffset))
	write(uint32(0))

	buf.Write(value)
	return buf.Bytes()
}

// jpegWithExif encodes a small JPEG and inserts an APP1 Exif segment after SOI.
func jpegWithExif(t *testing.T, tiff []byte) []byte {
	t.Helper()

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, image.NewGray(image.Rect(0, 0, 8, 6)), nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
	body := encoded.Bytes()

	payload := append([]byte("Exif\x00\x00"), tiff...)
	segLen := make([]byte, 2)
	binary.BigEndian.PutUint16(segLen, uint16(len(payload)+2))

	var out bytes.Buffer
	out.Write(body[:2]) // SOI
	out.Write([]byte{0xFF, 0xE1})
	out.Write(segLen)
	out.Write(payload)
	out.Write(body[2:])
	return out.Bytes()
}

func TestExifTakenProducer(t *testing.T) {
	want := time.Date(2021, 6, 15, 10, 30, 0, 0, time.UTC)
	producer := &ExifTakenProducer{Location: time.UTC}

	var plainJPEG bytes.Buffer
	if err := jpeg.Encode(&plainJPEG, image.NewGray(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}

	tests := []struct {
		name    string
		data    []byte
		want    *time.Time
		wantErr bool
	}{
		{"DateTimeOriginal in jpeg", jpegWithExif(t, tiffWithDate(0x9003, "2021:06:15 10:30:00")), &want, false},
		{"DateTimeDigitized fallback", jpegWithExif(t, tiffWithDate(0x9004, "2021:06:15 10:30:00")), &want, false},
		{"no exif block", plainJPEG.Bytes(), nil, false},
		{"malformed date", jpegWithExif(t, tiffWithDate(0x9003, "15/06/2021")), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := producer.Taken(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Taken error = %v, wantErr %v", err, tt.wantErr)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Taken = %v, want nil", got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("Taken = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractWithExifProducer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera.jpg")
	data := jpegWithExif(t, tiffWithDate(0x9003, "2019:12:31 23:59:59"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	extractor := NewExtractor(WithTakenProducer(&ExifTakenProducer{Location: time.UTC}))
	got, err := extractor.Extract(path, "camera.jpg", statFile(t, path))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := time.Date(2019, 12, 31, 23, 59, 59, 0, time.UTC)
	if got.Taken == nil || !got.Taken.Equal(want) {
		t.Errorf("Taken = %v, want %v", got.Taken, want)
	}
	if got.Width != 8 || got.Height != 6 {
		t.Errorf("dimensions = %dx%d, want 8x6", got.Width, got.Height)
	}
}
