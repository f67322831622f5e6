package indexer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"lens/internal/database"
	"lens/internal/media"
)

// writeImage encodes a width x height image to path, creating parent
// directories. The format is chosen from the extension unless given.
func writeImage(t *testing.T, path string, width, height int) {
	t.Helper()
	writeImageAs(t, path, width, height, filepath.Ext(path))
}

func writeImageAs(t *testing.T, path string, width, height int, format string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	switch format {
	case ".jpg", ".JPG", "jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	case ".png", "png":
		err = png.Encode(f, img)
	case ".gif", "gif":
		err = gif.Encode(f, img, nil)
	default:
		t.Fatalf("Unsupported test image format %q", format)
	}
	if err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// fakeInfo is a FileInfo with a controllable size and mtime.
type fakeInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeInfo) ModTime() time.Time { return f.modTime }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

// memoryStore is an in-memory Store that counts mutations.
type memoryStore struct {
	mu      sync.Mutex
	images  map[string]database.Image
	nextID  int
	inserts int
	updates int

	findErr  error
	writeErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{images: make(map[string]database.Image)}
}

func (s *memoryStore) FindImageByPath(_ context.Context, path string) (*database.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}
	img, ok := s.images[path]
	if !ok {
		return nil, nil
	}
	return &img, nil
}

func (s *memoryStore) InsertImage(_ context.Context, fields database.ImageFields) (*database.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return nil, s.writeErr
	}
	if _, exists := s.images[fields.Path]; exists {
		return nil, fmt.Errorf("UNIQUE constraint failed: images.path (%s)", fields.Path)
	}

	s.nextID++
	s.inserts++
	now := time.Now()
	img := database.Image{
		ID:       fmt.Sprintf("id-%d", s.nextID),
		Path:     fields.Path,
		Width:    fields.Width,
		Height:   fields.Height,
		FileSize: fields.FileSize,
		Taken:    fields.Taken,
		Modified: fields.Modified,
		Created:  now,
		Updated:  now,
	}
	s.images[fields.Path] = img
	return &img, nil
}

func (s *memoryStore) UpdateImage(_ context.Context, id string, fields database.ImageFields) (*database.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return nil, s.writeErr
	}
	for path, img := range s.images {
		if img.ID != id {
			continue
		}
		s.updates++
		delete(s.images, path)
		img.Path = fields.Path
		img.Width = fields.Width
		img.Height = fields.Height
		img.FileSize = fields.FileSize
		img.Taken = fields.Taken
		img.Modified = fields.Modified
		img.Updated = time.Now()
		s.images[img.Path] = img
		return &img, nil
	}
	return nil, database.ErrNotFound
}

func (s *memoryStore) ListImages(context.Context, time.Time, time.Time, int) ([]database.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := make([]database.Image, 0, len(s.images))
	for _, img := range s.images {
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })
	return images, nil
}

func (s *memoryStore) mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts + s.updates
}

func (s *memoryStore) get(path string) (database.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[path]
	return img, ok
}

func (s *memoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// funcExtractor adapts a function to Extractor.
type funcExtractor func(absPath, relPath string, info fs.FileInfo) (*media.ExtractedInfo, error)

func (f funcExtractor) Extract(absPath, relPath string, info fs.FileInfo) (*media.ExtractedInfo, error) {
	return f(absPath, relPath, info)
}

// blockingExtractor signals on started and waits for release before
// delegating to media.Extractor.
type blockingExtractor struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	inner   *media.Extractor
}

func newBlockingExtractor() *blockingExtractor {
	return &blockingExtractor{
		started: make(chan struct{}),
		release: make(chan struct{}),
		inner:   media.NewExtractor(),
	}
}

func (b *blockingExtractor) Extract(absPath, relPath string, info fs.FileInfo) (*media.ExtractedInfo, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.inner.Extract(absPath, relPath, info)
}

var errStoreDown = errors.New("store unavailable")

func newTestIndexer(store Store, mediaDir string) *Indexer {
	return New(store, media.NewExtractor(), Config{MediaDir: mediaDir, Workers: 4})
}
