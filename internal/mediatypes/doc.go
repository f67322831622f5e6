// Package mediatypes decides which files under the media root are catalogued
// and which MIME type they are served with.
//
// It has no dependencies beyond the standard library so that both the
// indexer and the HTTP handlers can import it without cycles.
//
// # Extension Allow-List
//
// A file is an image candidate only when its extension is exactly one of
// gif, jpg, png or webp. Matching is case sensitive, so "photo.JPG" and
// "photo.jpeg" are ignored:
//
//	if mediatypes.IsImage(entry.Name()) {
//	    // classify and index
//	}
//
// The extension only selects candidates. The extractor decodes by sniffing
// content, so a PNG named "x.jpg" is still indexed correctly.
//
// # MIME Types
//
//	mimeType := mediatypes.GetMimeType(record.Path) // e.g. "image/jpeg"
package mediatypes
