package indexer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"lens/internal/database"
	"lens/internal/logging"
	"lens/internal/media"
	"lens/internal/metrics"
)

// Timestamps are stored as Unix nanoseconds, which only span these bounds.
var (
	minStoredTime = time.Unix(0, math.MinInt64)
	maxStoredTime = time.Unix(0, math.MaxInt64)
)

func checkStoredTime(field string, t *time.Time, path string) error {
	if t == nil {
		return nil
	}
	if t.Before(minStoredTime) || t.After(maxStoredTime) {
		return fmt.Errorf("%w: %s %s of %s", ErrOverflow, field, t.UTC().Format(time.RFC3339), path)
	}
	return nil
}

// toFields narrows extracted values to the catalog's column types.
func toFields(info *media.ExtractedInfo) (database.ImageFields, error) {
	if info.Width < 0 || info.Width > math.MaxInt32 {
		return database.ImageFields{}, fmt.Errorf("%w: width %d of %s", ErrOverflow, info.Width, info.RelativePath)
	}
	if info.Height < 0 || info.Height > math.MaxInt32 {
		return database.ImageFields{}, fmt.Errorf("%w: height %d of %s", ErrOverflow, info.Height, info.RelativePath)
	}
	if info.FileSize < 0 {
		return database.ImageFields{}, fmt.Errorf("%w: file size %d of %s", ErrOverflow, info.FileSize, info.RelativePath)
	}
	if err := checkStoredTime("modified", info.Modified, info.RelativePath); err != nil {
		return database.ImageFields{}, err
	}
	if err := checkStoredTime("taken", info.Taken, info.RelativePath); err != nil {
		return database.ImageFields{}, err
	}

	return database.ImageFields{
		Path:     info.RelativePath,
		Width:    int32(info.Width),
		Height:   int32(info.Height),
		FileSize: info.FileSize,
		Taken:    info.Taken,
		Modified: info.Modified,
	}, nil
}

// reconciler applies outcomes to the store one at a time.
type reconciler struct {
	store Store
	stats *RunStats
}

// apply writes one outcome. Only store failures are returned; per-file
// problems are logged and counted as skipped.
func (r *reconciler) apply(ctx context.Context, outcome indexOutcome) error {
	if outcome.kind == outcomeFailed {
		r.skip(outcome.path, outcome.err)
		return nil
	}

	fields, err := toFields(outcome.info)
	if err != nil {
		r.skip(outcome.path, err)
		return nil
	}

	switch outcome.kind {
	case outcomeNew:
		if _, err := r.store.InsertImage(ctx, fields); err != nil {
			return fmt.Errorf("failed to insert %s: %w", outcome.path, err)
		}
		r.stats.New++
		metrics.DiscoveryOutcomes.WithLabelValues("inserted").Inc()
		logging.Debug("Indexed new image %s (%dx%d)", fields.Path, fields.Width, fields.Height)

	case outcomeUpdate:
		if _, err := r.store.UpdateImage(ctx, outcome.existing.ID, fields); err != nil {
			return fmt.Errorf("failed to update %s: %w", outcome.path, err)
		}
		r.stats.Updated++
		metrics.DiscoveryOutcomes.WithLabelValues("updated").Inc()
		logging.Debug("Reindexed image %s (%dx%d)", fields.Path, fields.Width, fields.Height)

	default:
		return errors.New("unknown outcome kind")
	}

	return nil
}

func (r *reconciler) skip(path string, err error) {
	r.stats.Skipped++
	metrics.DiscoveryOutcomes.WithLabelValues("skipped").Inc()
	logging.Warn("Error indexing image %s: %v", path, err)
}
