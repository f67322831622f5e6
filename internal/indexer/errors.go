package indexer

import (
	"errors"

	"lens/internal/media"
)

var (
	// ErrDiscoveryInProgress is returned by Discover while another run is
	// executing.
	ErrDiscoveryInProgress = errors.New("discovery already in progress")

	// ErrInvalidPath marks a relative path that is not valid UTF-8.
	ErrInvalidPath = media.ErrInvalidPath

	// ErrDecode marks a file whose contents are not a decodable image.
	ErrDecode = media.ErrDecode

	// ErrOverflow marks a value that does not fit its catalog column.
	ErrOverflow = errors.New("value out of range")
)
