// Package metrics provides Prometheus instrumentation for lens.
//
// All metrics are prefixed with "lens_" and registered on the default
// registry through promauto, so importing the package is enough to export
// them from the /metrics endpoint.
//
// # Metric Categories
//
// ## HTTP Metrics
//   - HTTPRequestsTotal: requests by method, path and status
//   - HTTPRequestDuration: request duration by method and path
//   - HTTPRequestsInFlight: requests currently being served
//
// ## Database Metrics
//   - DBQueryTotal / DBQueryDuration: store calls by operation
//   - DBConnectionsOpen: open connections in the sql.DB pool
//   - DBSizeBytes: size of the SQLite main, WAL and SHM files
//
// ## Discovery Metrics
//   - DiscoveryRunsTotal: discovery runs by result (success, error, rejected)
//   - DiscoveryRunning: 1 while a run is in progress
//   - DiscoveryLastRunTimestamp / DiscoveryLastRunDuration
//   - DiscoveryDirectoriesWalked: directories popped from the walk stack
//   - DiscoveryFilesClassified: image files by change decision
//   - DiscoveryOutcomes: reconciled outcomes (inserted, updated, skipped)
//   - DiscoveryExtractDuration: time spent reading and decoding one file
//
// ## Catalog Metrics
//   - CatalogImagesTotal / CatalogBytesTotal / CatalogImagesWithTaken,
//     refreshed by the Collector
//
// ## Filesystem Metrics
//   - FilesystemRetry*: NFS stale handle retries on the file serving path
//
// Label combinations are pre-populated by InitializeMetrics so that every
// series exists from the first scrape.
package metrics
