package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lens/internal/media"
)

func TestDiscoverScenario(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "a", "photo1.jpg"), 800, 600)
	writeFile(t, filepath.Join(root, "a", "bad.png"), []byte("corrupted bytes"))
	if err := os.MkdirAll(filepath.Join(root, "b"), 0o755); err != nil {
		t.Fatalf("Failed to create b: %v", err)
	}

	store := newMemoryStore()
	stats, err := newTestIndexer(store, root).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if store.len() != 1 {
		t.Fatalf("store has %d records, want 1", store.len())
	}
	img, ok := store.get("a/photo1.jpg")
	if !ok {
		t.Fatal("no record for a/photo1.jpg")
	}
	if img.Width != 800 || img.Height != 600 {
		t.Errorf("dimensions = %dx%d, want 800x600", img.Width, img.Height)
	}
	if _, ok := store.get("a/bad.png"); ok {
		t.Error("corrupted file should not produce a record")
	}

	want := RunStats{Directories: 3, ImagesSeen: 2, New: 1, Skipped: 1}
	stats.StartedAt, stats.Duration = time.Time{}, 0
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestDiscoverIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "one.png"), 10, 10)
	writeImage(t, filepath.Join(root, "x", "two.gif"), 5, 7)
	writeImage(t, filepath.Join(root, "x", "y", "three.jpg"), 3, 4)

	store := newMemoryStore()
	idx := newTestIndexer(store, root)

	if _, err := idx.Discover(context.Background()); err != nil {
		t.Fatalf("first Discover failed: %v", err)
	}
	before := store.mutations()
	if before != 3 {
		t.Fatalf("first run made %d mutations, want 3", before)
	}

	stats, err := idx.Discover(context.Background())
	if err != nil {
		t.Fatalf("second Discover failed: %v", err)
	}
	if store.mutations() != before {
		t.Errorf("second run made %d mutations, want 0", store.mutations()-before)
	}
	if stats.Unchanged != 3 || stats.New != 0 || stats.Updated != 0 {
		t.Errorf("second run stats = %+v", stats)
	}
}

func TestDiscoverIgnoresUnsupportedExtensions(t *testing.T) {
	root := t.TempDir()

	// Valid image bytes behind extensions outside the allow-list.
	writeImageAs(t, filepath.Join(root, "notes.txt"), 4, 4, "png")
	writeImage(t, filepath.Join(root, "UPPER.JPG"), 4, 4)
	writeImageAs(t, filepath.Join(root, "photo.jpeg"), 4, 4, "jpeg")

	store := newMemoryStore()
	stats, err := newTestIndexer(store, root).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if store.len() != 0 {
		t.Errorf("store has %d records, want 0", store.len())
	}
	if stats.ImagesSeen != 0 {
		t.Errorf("ImagesSeen = %d, want 0", stats.ImagesSeen)
	}
}

func TestDiscoverSniffsContent(t *testing.T) {
	root := t.TempDir()
	writeImageAs(t, filepath.Join(root, "actually-png.jpg"), 9, 3, "png")

	store := newMemoryStore()
	if _, err := newTestIndexer(store, root).Discover(context.Background()); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	img, ok := store.get("actually-png.jpg")
	if !ok || img.Width != 9 || img.Height != 3 {
		t.Errorf("record = %+v, %v; want 9x3", img, ok)
	}
}

func TestDiscoverRejectsOverlappingRun(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "slow.png"), 2, 2)

	store := newMemoryStore()
	extractor := newBlockingExtractor()
	idx := New(store, extractor, Config{MediaDir: root, Workers: 1})

	done := make(chan error, 1)
	go func() {
		_, err := idx.Discover(context.Background())
		done <- err
	}()

	select {
	case <-extractor.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never started extracting")
	}

	if !idx.IsDiscovering() {
		t.Error("IsDiscovering() = false during a run")
	}
	if _, err := idx.Discover(context.Background()); !errors.Is(err, ErrDiscoveryInProgress) {
		t.Errorf("overlapping Discover err = %v, want ErrDiscoveryInProgress", err)
	}

	close(extractor.release)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if store.len() != 1 {
		t.Errorf("store has %d records, want 1", store.len())
	}

	// Once finished, a new run is accepted.
	if _, err := idx.Discover(context.Background()); err != nil {
		t.Errorf("Discover after completion failed: %v", err)
	}
}

func TestDiscoverFatalErrors(t *testing.T) {
	t.Run("missing media directory", func(t *testing.T) {
		idx := newTestIndexer(newMemoryStore(), filepath.Join(t.TempDir(), "missing"))
		if _, err := idx.Discover(context.Background()); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want ErrNotExist", err)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		root := t.TempDir()
		writeImage(t, filepath.Join(root, "a.png"), 2, 2)

		store := newMemoryStore()
		store.findErr = errStoreDown
		if _, err := newTestIndexer(store, root).Discover(context.Background()); !errors.Is(err, errStoreDown) {
			t.Errorf("err = %v, want %v", err, errStoreDown)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		root := t.TempDir()
		writeImage(t, filepath.Join(root, "a.png"), 2, 2)

		store := newMemoryStore()
		store.writeErr = errStoreDown
		if _, err := newTestIndexer(store, root).Discover(context.Background()); !errors.Is(err, errStoreDown) {
			t.Errorf("err = %v, want %v", err, errStoreDown)
		}
	})

	t.Run("non UTF-8 path", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "bad\xff.png"), []byte("x"), 0o644); err != nil {
			t.Skipf("filesystem rejects non UTF-8 names: %v", err)
		}

		store := newMemoryStore()
		if _, err := newTestIndexer(store, root).Discover(context.Background()); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("err = %v, want ErrInvalidPath", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		root := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := newTestIndexer(newMemoryStore(), root).Discover(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestDiscoverSkipsOverflow(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "huge.png"), []byte("x"))
	writeImage(t, filepath.Join(root, "fine.png"), 2, 2)

	inner := media.NewExtractor()
	extractor := funcExtractor(func(absPath, relPath string, info os.FileInfo) (*media.ExtractedInfo, error) {
		if relPath == "huge.png" {
			return &media.ExtractedInfo{RelativePath: relPath, Width: 1 << 31, Height: 1, FileSize: info.Size()}, nil
		}
		return inner.Extract(absPath, relPath, info)
	})

	store := newMemoryStore()
	stats, err := New(store, extractor, Config{MediaDir: root, Workers: 2}).Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if _, ok := store.get("huge.png"); ok {
		t.Error("overflowing image was stored")
	}
	if _, ok := store.get("fine.png"); !ok {
		t.Error("sibling image was not stored")
	}
	if stats.Skipped != 1 || stats.New != 1 {
		t.Errorf("stats = %+v, want 1 new and 1 skipped", stats)
	}
}

func TestDiscoverFailOpenOnUnknownModTime(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "p.png"), 2, 2)

	store := newMemoryStore()
	idx := newTestIndexer(store, root)
	if _, err := idx.Discover(context.Background()); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	// Same size, but the record's mtime no longer matches and the file's
	// mtime cannot be read.
	existing, _ := store.get("p.png")
	file := DiscoveredFile{
		RelPath: "p.png",
		Info:    fakeInfo{name: "p.png", size: existing.FileSize},
	}
	if got := Classify(file, &existing); got != DecisionUnchanged {
		t.Errorf("Classify() = %v, want unchanged", got)
	}
}

func TestHealthStatus(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "p.png"), 2, 2)

	idx := newTestIndexer(newMemoryStore(), root)

	status := idx.GetHealthStatus()
	if status.Ready || status.Discovering || status.LastStats != nil {
		t.Errorf("initial status = %+v", status)
	}

	if _, err := idx.Discover(context.Background()); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	status = idx.GetHealthStatus()
	if !status.Ready || !idx.IsReady() {
		t.Error("indexer should be ready after a completed run")
	}
	if status.LastRun.IsZero() {
		t.Error("LastRun should be set after a successful run")
	}
	if status.LastStats == nil || status.LastStats.New != 1 {
		t.Errorf("LastStats = %+v, want 1 new", status.LastStats)
	}
	if status.LastError != "" {
		t.Errorf("LastError = %q, want empty", status.LastError)
	}

	idx.mediaDir = filepath.Join(root, "gone")
	if _, err := idx.Discover(context.Background()); err == nil {
		t.Fatal("Discover of a missing directory should fail")
	}
	if status = idx.GetHealthStatus(); status.LastError == "" {
		t.Error("LastError should report the failed run")
	}
}

func TestStartStop(t *testing.T) {
	root := t.TempDir()
	writeImage(t, filepath.Join(root, "p.png"), 2, 2)

	store := newMemoryStore()
	completed := make(chan RunStats, 4)

	idx := New(store, media.NewExtractor(), Config{
		MediaDir:   root,
		Workers:    2,
		Interval:   20 * time.Millisecond,
		RunOnStart: true,
	})
	idx.SetOnDiscoverComplete(func(stats RunStats) {
		select {
		case completed <- stats:
		default:
		}
	})

	idx.Start()

	for i := 0; i < 2; i++ {
		select {
		case <-completed:
		case <-time.After(5 * time.Second):
			t.Fatalf("run %d did not complete", i+1)
		}
	}

	idx.Stop()
	idx.Stop() // safe to call twice

	if !idx.IsReady() {
		t.Error("indexer should be ready after the initial run")
	}
	if store.len() != 1 {
		t.Errorf("store has %d records, want 1", store.len())
	}
}

func TestStartWithoutInitialRunIsReady(t *testing.T) {
	idx := New(newMemoryStore(), media.NewExtractor(), Config{MediaDir: t.TempDir()})
	idx.Start()
	defer idx.Stop()

	if !idx.IsReady() {
		t.Error("indexer without a scheduled run should be ready immediately")
	}
}
