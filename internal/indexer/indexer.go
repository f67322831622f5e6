package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"lens/internal/database"
	"lens/internal/logging"
	"lens/internal/metrics"
)

// Store is the record store used by discovery and catalog queries.
type Store interface {
	// FindImageByPath returns nil without error when no record exists.
	FindImageByPath(ctx context.Context, path string) (*database.Image, error)
	InsertImage(ctx context.Context, fields database.ImageFields) (*database.Image, error)
	UpdateImage(ctx context.Context, id string, fields database.ImageFields) (*database.Image, error)
	ListImages(ctx context.Context, from, to time.Time, limit int) ([]database.Image, error)
}

// Config holds indexer settings.
type Config struct {
	MediaDir string
	// Workers bounds concurrent extractions per directory. Values < 1 mean 1.
	Workers int
	// Interval between periodic runs after Start. Zero disables them.
	Interval time.Duration
	// RunOnStart runs discovery in the background when Start is called.
	RunOnStart bool
}

// RunStats summarizes one discovery run.
type RunStats struct {
	Directories int           `json:"directories"`
	ImagesSeen  int           `json:"imagesSeen"`
	New         int           `json:"new"`
	Updated     int           `json:"updated"`
	Unchanged   int           `json:"unchanged"`
	Skipped     int           `json:"skipped"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"durationNs"`
}

// Indexer runs discovery against a Store.
type Indexer struct {
	store      Store
	extractor  Extractor
	mediaDir   string
	workers    int
	interval   time.Duration
	runOnStart bool

	runMu            sync.Mutex
	running          bool
	firstRunComplete bool
	lastRun          RunStats
	lastRunTime      time.Time
	lastError        error
	startTime        time.Time

	onDiscoverComplete func(RunStats)

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates an Indexer.
func New(store Store, extractor Extractor, cfg Config) *Indexer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Indexer{
		store:      store,
		extractor:  extractor,
		mediaDir:   cfg.MediaDir,
		workers:    workers,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
		startTime:  time.Now(),
	}
}

// SetOnDiscoverComplete sets a callback invoked after each successful run.
func (idx *Indexer) SetOnDiscoverComplete(callback func(RunStats)) {
	idx.onDiscoverComplete = callback
}

// Start launches the initial run, if configured, and the periodic schedule.
func (idx *Indexer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	idx.cancel = cancel

	if idx.runOnStart {
		idx.wg.Add(1)
		go func() {
			defer idx.wg.Done()
			logging.Info("Starting initial discovery in background...")
			idx.runInBackground(ctx, "initial")
		}()
	} else {
		idx.runMu.Lock()
		idx.firstRunComplete = true
		idx.runMu.Unlock()
	}

	if idx.interval > 0 {
		idx.wg.Add(1)
		go func() {
			defer idx.wg.Done()
			idx.periodicDiscover(ctx)
		}()
	}
}

// Stop cancels any background run and waits for background work to end.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() {
		if idx.cancel != nil {
			idx.cancel()
		}
		idx.wg.Wait()
	})
}

func (idx *Indexer) periodicDiscover(ctx context.Context) {
	logging.Info("Periodic discovery enabled (interval: %v)", idx.interval)

	ticker := time.NewTicker(idx.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic discovery triggered")
			idx.runInBackground(ctx, "periodic")
		case <-ctx.Done():
			logging.Info("Periodic discovery stopped")
			return
		}
	}
}

func (idx *Indexer) runInBackground(ctx context.Context, kind string) {
	_, err := idx.Discover(ctx)
	switch {
	case errors.Is(err, ErrDiscoveryInProgress):
		logging.Info("Discovery already in progress, skipping %s run", kind)
	case err != nil:
		logging.Error("%s discovery failed: %v", kind, err)
	}
}

// Discover performs one complete walk, index and reconcile pass over the
// media directory. It returns ErrDiscoveryInProgress without doing anything
// if another run is executing.
func (idx *Indexer) Discover(ctx context.Context) (RunStats, error) {
	if !idx.tryStartDiscovery() {
		metrics.DiscoveryRunsTotal.WithLabelValues("rejected").Inc()
		return RunStats{}, ErrDiscoveryInProgress
	}

	metrics.DiscoveryRunning.Set(1)
	defer metrics.DiscoveryRunning.Set(0)

	stats := RunStats{StartedAt: time.Now()}
	logging.Info("Starting discovery of %s", idx.mediaDir)

	err := idx.discover(ctx, &stats)
	stats.Duration = time.Since(stats.StartedAt)

	idx.finishDiscovery(stats, err)

	if err != nil {
		metrics.DiscoveryRunsTotal.WithLabelValues("error").Inc()
		return stats, err
	}

	metrics.DiscoveryRunsTotal.WithLabelValues("success").Inc()
	metrics.DiscoveryLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.DiscoveryLastRunDuration.Set(stats.Duration.Seconds())

	logging.Info("Discovery complete: %d directories, %d images (%d new, %d updated, %d unchanged, %d skipped) in %v",
		stats.Directories, stats.ImagesSeen, stats.New, stats.Updated, stats.Unchanged, stats.Skipped, stats.Duration)

	if idx.onDiscoverComplete != nil {
		idx.onDiscoverComplete(stats)
	}

	return stats, nil
}

func (idx *Indexer) discover(ctx context.Context, stats *RunStats) error {
	walker := NewWalker(idx.mediaDir)
	rec := &reconciler{store: idx.store, stats: stats}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("discovery cancelled: %w", err)
		}

		dir, ok, err := walker.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		stats.Directories++
		metrics.DiscoveryDirectoriesWalked.Inc()

		if err := idx.indexDirectory(ctx, dir, rec, stats); err != nil {
			return err
		}
	}
}

// indexDirectory classifies every file of dir, extracts the ones that need
// it and applies all outcomes before returning.
func (idx *Indexer) indexDirectory(ctx context.Context, dir *Directory, rec *reconciler, stats *RunStats) error {
	batch := newTaskBatch(idx.extractor, idx.workers, len(dir.Files))

	for _, file := range dir.Files {
		stats.ImagesSeen++

		if !utf8.ValidString(file.RelPath) {
			batch.wait()
			return fmt.Errorf("%w: %q", ErrInvalidPath, file.RelPath)
		}

		existing, err := idx.store.FindImageByPath(ctx, file.RelPath)
		if err != nil {
			batch.wait()
			return fmt.Errorf("failed to look up %s: %w", file.RelPath, err)
		}

		decision := Classify(file, existing)
		metrics.DiscoveryFilesClassified.WithLabelValues(decision.String()).Inc()

		switch decision {
		case DecisionNew:
			batch.submit(file, nil)
		case DecisionReindex:
			batch.submit(file, existing)
		default:
			stats.Unchanged++
		}
	}

	if batch.submitted == 0 {
		return nil
	}

	for outcome := range batch.outcomes() {
		if err := rec.apply(ctx, outcome); err != nil {
			return err
		}
	}

	return nil
}

// tryStartDiscovery attempts to start a run, returns false if one is in progress.
func (idx *Indexer) tryStartDiscovery() bool {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()

	if idx.running {
		return false
	}
	idx.running = true
	return true
}

// finishDiscovery records the result of a run.
func (idx *Indexer) finishDiscovery(stats RunStats, err error) {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()

	idx.running = false
	idx.firstRunComplete = true
	idx.lastRun = stats
	idx.lastError = err
	if err == nil {
		idx.lastRunTime = time.Now()
	}
}

// IsDiscovering returns whether a run is in progress.
func (idx *Indexer) IsDiscovering() bool {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()
	return idx.running
}

// IsReady returns true once the first run has finished, or immediately
// when no run is scheduled on start.
func (idx *Indexer) IsReady() bool {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()
	return idx.firstRunComplete
}

// ListImages returns catalogued images in a time range. See
// database.Database.ListImages for the matching and ordering rules.
func (idx *Indexer) ListImages(ctx context.Context, from, to time.Time, limit int) ([]database.Image, error) {
	return idx.store.ListImages(ctx, from, to, limit)
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready       bool      `json:"ready"`
	Discovering bool      `json:"discovering"`
	StartTime   time.Time `json:"startTime"`
	Uptime      string    `json:"uptime"`
	LastRun     time.Time `json:"lastRun,omitempty"`
	LastStats   *RunStats `json:"lastStats,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.runMu.Lock()
	defer idx.runMu.Unlock()

	status := HealthStatus{
		Ready:       idx.firstRunComplete,
		Discovering: idx.running,
		StartTime:   idx.startTime,
		Uptime:      time.Since(idx.startTime).String(),
		LastRun:     idx.lastRunTime,
	}

	if !idx.lastRun.StartedAt.IsZero() {
		stats := idx.lastRun
		status.LastStats = &stats
	}

	if idx.lastError != nil {
		status.LastError = idx.lastError.Error()
	}

	return status
}
