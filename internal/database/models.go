package database

import "time"

// Image is a catalogued image file.
type Image struct {
	ID        string     `json:"id"`
	Path      string     `json:"path"`
	Width     int32      `json:"width"`
	Height    int32      `json:"height"`
	FileSize  int64      `json:"fileSize"`
	Thumbnail bool       `json:"thumbnail"`
	Taken     *time.Time `json:"taken,omitempty"`
	Modified  *time.Time `json:"modified,omitempty"`
	Created   time.Time  `json:"created"`
	Updated   time.Time  `json:"updated"`
}

// ImageFields are the columns written by discovery. Identity and the
// store-owned timestamps are not part of it.
type ImageFields struct {
	Path     string
	Width    int32
	Height   int32
	FileSize int64
	Taken    *time.Time
	Modified *time.Time
}
