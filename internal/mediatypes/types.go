package mediatypes

import "path"

// ImageExtensions is the case-sensitive allow-list of catalogued extensions,
// without the leading dot.
var ImageExtensions = map[string]bool{
	"gif":  true,
	"jpg":  true,
	"png":  true,
	"webp": true,
}

// MimeTypes maps allow-listed extensions to their MIME types.
var MimeTypes = map[string]string{
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// Extension returns the text after the last dot of the final path element,
// or "" when there is none. A leading dot alone does not start an extension,
// so ".png" has no extension.
func Extension(name string) string {
	base := path.Base(name)
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return ""
	}
	return ext[1:]
}

// IsImage reports whether name carries an allow-listed image extension.
func IsImage(name string) bool {
	return ImageExtensions[Extension(name)]
}

// GetMimeType returns the MIME type for a file name, or
// "application/octet-stream" if the extension is not recognized.
func GetMimeType(name string) string {
	if mime, ok := MimeTypes[Extension(name)]; ok {
		return mime
	}
	return "application/octet-stream"
}
