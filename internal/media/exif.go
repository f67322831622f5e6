package media

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"lens/internal/logging"
)

// exifDateLayout is the fixed EXIF 2.x date format.
const exifDateLayout = "2006:01:02 15:04:05"

// exifDateFields in order of preference.
var exifDateFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// ExifTakenProducer reads the capture time from EXIF date tags.
type ExifTakenProducer struct {
	// Location interprets EXIF dates, which carry no zone. Nil means time.Local.
	Location *time.Location
}

// NewExifTakenProducer returns a producer that reads dates in local time.
func NewExifTakenProducer() *ExifTakenProducer {
	return &ExifTakenProducer{}
}

// Taken implements TakenProducer. Data without EXIF yields nil, nil.
func (p *ExifTakenProducer) Taken(data []byte) (*time.Time, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// Most PNG, GIF and WebP files have no EXIF block.
		logging.Debug("No EXIF data: %v", err)
		return nil, nil
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	for _, field := range exifDateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			return nil, fmt.Errorf("exif %s: %w", field, err)
		}
		taken, err := time.ParseInLocation(exifDateLayout, strings.TrimRight(value, "\x00 "), loc)
		if err != nil {
			return nil, fmt.Errorf("exif %s: %w", field, err)
		}
		return &taken, nil
	}

	return nil, nil
}
