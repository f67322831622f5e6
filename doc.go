// Lens catalogs the image files under a media directory into a SQLite
// database and serves catalog queries over HTTP.
//
// # Application Lifecycle
//
//  1. Memory configuration: sets GOMEMLIMIT from LENS_MEMORY_LIMIT
//  2. Configuration loading: reads LENS_* variables and prepares the data directory
//  3. Database initialization: opens lens.db in WAL mode
//  4. Indexer: runs discovery on start and on LENS_DISCOVER_INTERVAL
//  5. Metrics collector: refreshes catalog gauges every minute
//  6. HTTP servers: the API on LENS_PORT and /metrics on LENS_METRICS_PORT
//  7. Graceful shutdown on SIGINT/SIGTERM
//
// # HTTP API
//
//   - GET  /api/images?from=&to=&limit=  records in a capture-time range
//   - GET  /api/images/{id}              a single record
//   - GET  /api/images/{id}/data         the original file
//   - POST /api/discover                 run discovery and return its stats
//   - GET  /health, /healthz, /livez, /readyz, /version
//
// The lensctl command in cmd/lensctl runs discovery and range queries against
// the same database without starting a server.
package main
