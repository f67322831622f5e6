package streaming

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want 30s", cfg.WriteTimeout)
	}
	if cfg.ChunkSize != 64*1024 {
		t.Errorf("ChunkSize = %d, want 64KiB", cfg.ChunkSize)
	}
}

func TestCopyToRecorder(t *testing.T) {
	data := bytes.Repeat([]byte("lens"), 50_000)

	tests := []struct {
		name   string
		config Config
	}{
		{"defaults", DefaultConfig()},
		{"small chunks", Config{WriteTimeout: time.Second, ChunkSize: 7}},
		{"no deadline", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			n, err := Copy(context.Background(), w, bytes.NewReader(data), tt.config)
			if err != nil {
				t.Fatalf("Copy failed: %v", err)
			}
			if n != int64(len(data)) {
				t.Errorf("written = %d, want %d", n, len(data))
			}
			if !bytes.Equal(w.Body.Bytes(), data) {
				t.Error("body differs from input")
			}
		})
	}
}

func TestCopyCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Copy(ctx, httptest.NewRecorder(), strings.NewReader("data"), DefaultConfig())
	if !errors.Is(err, ErrClientGone) {
		t.Errorf("expected ErrClientGone, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestCopyReadError(t *testing.T) {
	_, err := Copy(context.Background(), httptest.NewRecorder(), failingReader{}, DefaultConfig())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestCopyOverRealConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	data := bytes.Repeat([]byte{0xab}, 1<<20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := Copy(r.Context(), w, bytes.NewReader(data), Config{WriteTimeout: 5 * time.Second, ChunkSize: 4096}); err != nil {
			t.Errorf("Copy failed: %v", err)
		}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("received %d bytes, want %d", len(got), len(data))
	}
}

func TestClassify(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	deadlineErr := &net.OpError{Op: "write", Err: timeoutError{}}
	other := errors.New("broken pipe")

	if err := classify(canceled, other); !errors.Is(err, ErrClientGone) {
		t.Errorf("canceled ctx: got %v", err)
	}
	if err := classify(context.Background(), deadlineErr); !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("deadline: got %v", err)
	}
	if err := classify(context.Background(), other); !errors.Is(err, other) {
		t.Errorf("other: got %v", err)
	}
}

// timeoutError matches os.ErrDeadlineExceeded through errors.Is.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
func (timeoutError) Is(target error) bool {
	return target == os.ErrDeadlineExceeded
}
