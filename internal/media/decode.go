package media

import (
	"image"
	"io"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// Decoder turns encoded image bytes into an image. The format is detected
// from the content.
type Decoder func(r io.Reader) (image.Image, error)

// DecodeImage decodes with the formats registered in the image package.
// EXIF orientation is not applied, so dimensions are the stored pixel grid.
func DecodeImage(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(false))
}
