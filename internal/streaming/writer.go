package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"lens/internal/logging"
)

var (
	// ErrWriteTimeout indicates that a chunk could not be written before its
	// deadline.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the request context ended before the copy
	// completed.
	ErrClientGone = errors.New("client disconnected")
)

// Config configures Copy.
type Config struct {
	// WriteTimeout bounds each chunk write. Zero disables deadlines.
	WriteTimeout time.Duration
	// ChunkSize is the read buffer size.
	ChunkSize int
}

// DefaultConfig returns the settings used for image downloads.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		ChunkSize:    64 * 1024,
	}
}

// Copy writes r to w chunk by chunk. It returns the number of bytes written.
func Copy(ctx context.Context, w http.ResponseWriter, r io.Reader, config Config) (int64, error) {
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultConfig().ChunkSize
	}

	rc := http.NewResponseController(w)
	deadlines := config.WriteTimeout > 0
	buf := make([]byte, chunkSize)
	start := time.Now()

	var written int64
	for {
		if ctx.Err() != nil {
			return written, ErrClientGone
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			if deadlines {
				deadlines = setDeadline(rc, time.Now().Add(config.WriteTimeout))
			}
			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, classify(ctx, err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	if deadlines {
		// Clear the deadline so keep-alive connections are not affected.
		setDeadline(rc, time.Time{})
	}

	logging.Debug("Stream completed: %d bytes in %v", written, time.Since(start))
	return written, nil
}

// setDeadline reports whether the writer supports deadlines.
func setDeadline(rc *http.ResponseController, deadline time.Time) bool {
	err := rc.SetWriteDeadline(deadline)
	if errors.Is(err, http.ErrNotSupported) {
		return false
	}
	if err != nil {
		logging.Debug("Failed to set write deadline: %v", err)
	}
	return true
}

func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ErrClientGone
	case errors.Is(err, os.ErrDeadlineExceeded):
		return ErrWriteTimeout
	default:
		return err
	}
}
