package media

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"lens/internal/logging"
)

var (
	// ErrDecode is returned when file contents are not a decodable image.
	ErrDecode = errors.New("image decode failed")

	// ErrInvalidPath is returned when a relative path is not valid UTF-8.
	ErrInvalidPath = errors.New("path is not valid UTF-8")
)

// ExtractedInfo is the metadata produced for one image file.
type ExtractedInfo struct {
	RelativePath string
	Width        int
	Height       int
	FileSize     int64
	Taken        *time.Time
	Modified     *time.Time
}

// TakenProducer supplies the time an image was captured. It returns nil
// without error when the data carries no such information.
type TakenProducer interface {
	Taken(data []byte) (*time.Time, error)
}

// Extractor turns image files into ExtractedInfo. It is safe for concurrent
// use as long as its Decoder and TakenProducer are.
type Extractor struct {
	decode Decoder
	taken  TakenProducer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDecoder replaces DecodeImage.
func WithDecoder(d Decoder) Option {
	return func(e *Extractor) {
		e.decode = d
	}
}

// WithTakenProducer enables the taken timestamp.
func WithTakenProducer(p TakenProducer) Option {
	return func(e *Extractor) {
		e.taken = p
	}
}

// NewExtractor creates an Extractor using DecodeImage and no taken producer.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{decode: DecodeImage}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewExtractorFromConfig creates the extractor used by discovery runs. The
// EXIF taken producer is attached only when extractTaken is set.
func NewExtractorFromConfig(extractTaken bool) *Extractor {
	if extractTaken {
		return NewExtractor(WithTakenProducer(NewExifTakenProducer()))
	}
	return NewExtractor()
}

// Extract reads and decodes absPath. FileSize and Modified come from info,
// which is not refreshed. A failure here concerns this file only.
func (e *Extractor) Extract(absPath, relPath string, info fs.FileInfo) (*ExtractedInfo, error) {
	if !utf8.ValidString(relPath) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}

	img, err := e.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, relPath, err)
	}

	bounds := img.Bounds()
	extracted := &ExtractedInfo{
		RelativePath: relPath,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		FileSize:     info.Size(),
	}

	if e.taken != nil {
		taken, err := e.taken.Taken(data)
		if err != nil {
			logging.Warn("Failed to read taken time for %s: %v", relPath, err)
		} else {
			extracted.Taken = taken
		}
	}

	if mtime, ok := ModTime(info); ok {
		extracted.Modified = &mtime
	} else {
		logging.Warn("Modification time unavailable for %s", relPath)
	}

	return extracted, nil
}

// ModTime returns the modification time recorded in info. The boolean is
// false when info is nil or reports the zero time, which is how platforms
// without mtime support surface it.
func ModTime(info fs.FileInfo) (time.Time, bool) {
	if info == nil {
		return time.Time{}, false
	}
	mtime := info.ModTime()
	if mtime.IsZero() {
		return time.Time{}, false
	}
	return mtime, true
}
