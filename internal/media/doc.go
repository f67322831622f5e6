// Package media extracts catalog metadata from image files.
//
// An Extractor reads a file's full contents, decodes it by sniffing the format
// from its bytes (GIF, JPEG, PNG and WebP are registered), and reports pixel
// dimensions together with the byte size and modification time taken from the
// caller's fs.FileInfo snapshot. The file extension plays no part in decoding.
//
// The "taken" timestamp is produced by an optional TakenProducer. Without one
// it is always absent. ExifTakenProducer reads it from EXIF date tags.
package media
