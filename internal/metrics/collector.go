package metrics

import (
	"os"
	"time"

	"lens/internal/logging"
)

// Stats holds catalog totals reported by a StatsProvider.
type Stats struct {
	TotalImages     int64
	ImagesWithTaken int64
	TotalBytes      int64
}

// StatsProvider supplies catalog totals to the collector.
type StatsProvider interface {
	CatalogStats() (Stats, error)
}

// DBMetricsUpdater is implemented by stores that export connection pool
// metrics.
type DBMetricsUpdater interface {
	UpdateDBMetrics()
}

// Collector periodically collects and updates catalog and storage metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath may be empty to skip
// database file size reporting.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats, err := c.statsProvider.CatalogStats()
	if err != nil {
		logging.Warn("Failed to collect catalog stats: %v", err)
	} else {
		CatalogImagesTotal.Set(float64(stats.TotalImages))
		CatalogImagesWithTaken.Set(float64(stats.ImagesWithTaken))
		CatalogBytesTotal.Set(float64(stats.TotalBytes))
	}

	if updater, ok := c.statsProvider.(DBMetricsUpdater); ok {
		updater.UpdateDBMetrics()
	}

	c.collectDBSize()

	logging.Debug("Metrics collected: images=%d, withTaken=%d, bytes=%d",
		stats.TotalImages, stats.ImagesWithTaken, stats.TotalBytes)
}

func (c *Collector) collectDBSize() {
	if c.dbPath == "" {
		return
	}

	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}
	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			DBSizeBytes.WithLabelValues(label).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
	}
}
