package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"
	"testing"
	"time"

	"lens/internal/database"
	"lens/internal/media"
)

func TestTaskBatchRespectsLimit(t *testing.T) {
	var active, peak atomic.Int32

	extractor := funcExtractor(func(_, relPath string, info fs.FileInfo) (*media.ExtractedInfo, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return &media.ExtractedInfo{RelativePath: relPath, FileSize: info.Size()}, nil
	})

	const files = 12
	batch := newTaskBatch(extractor, 3, files)
	for i := 0; i < files; i++ {
		name := fmt.Sprintf("%02d.png", i)
		batch.submit(DiscoveredFile{RelPath: name, Info: fakeInfo{name: name}}, nil)
	}

	count := 0
	for outcome := range batch.outcomes() {
		if outcome.kind != outcomeNew {
			t.Errorf("outcome %s kind = %v, want new", outcome.path, outcome.kind)
		}
		count++
	}

	if count != files {
		t.Errorf("received %d outcomes, want %d", count, files)
	}
	if got := peak.Load(); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
}

func TestTaskBatchTagsOutcomes(t *testing.T) {
	extractor := funcExtractor(func(_, relPath string, _ fs.FileInfo) (*media.ExtractedInfo, error) {
		switch relPath {
		case "bad.png":
			return nil, fmt.Errorf("%w: bad.png", ErrDecode)
		case "panic.png":
			panic("decoder bug")
		}
		return &media.ExtractedInfo{RelativePath: relPath}, nil
	})

	existing := &database.Image{ID: "id-9", Path: "old.png"}

	batch := newTaskBatch(extractor, 2, 4)
	batch.submit(DiscoveredFile{RelPath: "new.png", Info: fakeInfo{}}, nil)
	batch.submit(DiscoveredFile{RelPath: "old.png", Info: fakeInfo{}}, existing)
	batch.submit(DiscoveredFile{RelPath: "bad.png", Info: fakeInfo{}}, nil)
	batch.submit(DiscoveredFile{RelPath: "panic.png", Info: fakeInfo{}}, nil)

	got := map[string]indexOutcome{}
	for outcome := range batch.outcomes() {
		got[outcome.path] = outcome
	}

	if got["new.png"].kind != outcomeNew {
		t.Errorf("new.png kind = %v, want new", got["new.png"].kind)
	}
	if o := got["old.png"]; o.kind != outcomeUpdate || o.existing != existing {
		t.Errorf("old.png = %+v, want update carrying the existing record", o)
	}
	if o := got["bad.png"]; o.kind != outcomeFailed || !errors.Is(o.err, ErrDecode) {
		t.Errorf("bad.png = %+v, want failed with ErrDecode", o)
	}
	if o := got["panic.png"]; o.kind != outcomeFailed || o.err == nil {
		t.Errorf("panic.png = %+v, want failed", o)
	}
}
