package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lens_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lens_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)
)

// Discovery metrics
var (
	DiscoveryRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_discovery_runs_total",
			Help: "Total number of discovery runs by result",
		},
		[]string{"result"}, // "success", "error", "rejected"
	)

	DiscoveryRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_discovery_running",
			Help: "Whether a discovery run is in progress (1 = running, 0 = idle)",
		},
	)

	DiscoveryLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_discovery_last_run_timestamp",
			Help: "Unix timestamp of the last completed discovery run",
		},
	)

	DiscoveryLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_discovery_last_run_duration_seconds",
			Help: "Duration of the last completed discovery run in seconds",
		},
	)

	DiscoveryDirectoriesWalked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lens_discovery_directories_walked_total",
			Help: "Total number of directories listed by the walker",
		},
	)

	DiscoveryFilesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_discovery_files_classified_total",
			Help: "Total number of image files classified by change decision",
		},
		[]string{"decision"}, // "new", "reindex", "unchanged"
	)

	DiscoveryOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_discovery_outcomes_total",
			Help: "Total number of reconciled index outcomes by result",
		},
		[]string{"result"}, // "inserted", "updated", "skipped"
	)

	DiscoveryExtractDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lens_discovery_extract_duration_seconds",
			Help:    "Time spent reading and decoding a single image",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Catalog metrics
var (
	CatalogImagesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_catalog_images_total",
			Help: "Number of image records in the catalog",
		},
	)

	CatalogImagesWithTaken = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_catalog_images_with_taken_total",
			Help: "Number of image records with a taken timestamp",
		},
	)

	CatalogBytesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lens_catalog_bytes_total",
			Help: "Sum of file sizes of all cataloged images",
		},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries after a stale NFS handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lens_filesystem_retry_duration_seconds",
			Help:    "Total time spent in a retried filesystem operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lens_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
