package indexer

import (
	"fmt"
	"io/fs"
	"time"

	"golang.org/x/sync/errgroup"

	"lens/internal/database"
	"lens/internal/media"
	"lens/internal/metrics"
)

// Extractor produces metadata for one image file.
type Extractor interface {
	Extract(absPath, relPath string, info fs.FileInfo) (*media.ExtractedInfo, error)
}

type outcomeKind int

const (
	outcomeNew outcomeKind = iota
	outcomeUpdate
	outcomeFailed
)

// indexOutcome is the tagged result of one extraction task.
type indexOutcome struct {
	kind outcomeKind
	// existing is set for outcomeUpdate.
	existing *database.Image
	info     *media.ExtractedInfo
	path     string
	err      error
}

// taskBatch runs the extraction tasks of a single directory. Tasks are
// submitted while the directory is classified and their outcomes are read
// back in completion order.
type taskBatch struct {
	extractor Extractor
	group     errgroup.Group
	results   chan indexOutcome
	submitted int
}

// newTaskBatch creates a batch that runs at most limit tasks at once and
// accepts up to capacity submissions.
func newTaskBatch(extractor Extractor, limit, capacity int) *taskBatch {
	b := &taskBatch{
		extractor: extractor,
		results:   make(chan indexOutcome, capacity),
	}
	if limit > 0 {
		b.group.SetLimit(limit)
	}
	return b
}

// submit schedules extraction of file. existing is nil for a new file.
// It blocks while the concurrency limit is reached.
func (b *taskBatch) submit(file DiscoveredFile, existing *database.Image) {
	b.submitted++
	b.group.Go(func() error {
		b.results <- b.extract(file, existing)
		return nil
	})
}

func (b *taskBatch) extract(file DiscoveredFile, existing *database.Image) (outcome indexOutcome) {
	start := time.Now()
	defer func() {
		metrics.DiscoveryExtractDuration.Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			outcome = indexOutcome{
				kind: outcomeFailed,
				path: file.RelPath,
				err:  fmt.Errorf("%w: %s: panic: %v", ErrDecode, file.RelPath, r),
			}
		}
	}()

	info, err := b.extractor.Extract(file.AbsPath, file.RelPath, file.Info)
	if err != nil {
		return indexOutcome{kind: outcomeFailed, path: file.RelPath, err: err}
	}

	if existing == nil {
		return indexOutcome{kind: outcomeNew, info: info, path: file.RelPath}
	}
	return indexOutcome{kind: outcomeUpdate, existing: existing, info: info, path: file.RelPath}
}

// outcomes returns a channel yielding one outcome per submitted task. It is
// closed after the last task finishes. No more tasks may be submitted.
func (b *taskBatch) outcomes() <-chan indexOutcome {
	go func() {
		_ = b.group.Wait()
		close(b.results)
	}()
	return b.results
}

// wait blocks until every submitted task has finished and discards the
// outcomes.
func (b *taskBatch) wait() {
	_ = b.group.Wait()
}
