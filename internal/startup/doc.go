// Package startup handles configuration loading and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - LENS_MEDIA_DIR: Root of the image tree (default: /media)
//   - LENS_DATA_DIR: Directory holding the catalog database (default: /data)
//   - LENS_PORT: HTTP server port (default: 4321)
//   - LENS_METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - LENS_METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - LENS_DISCOVER_INTERVAL: Periodic discovery as a Go duration, 0 disables (default: 0)
//   - LENS_DISCOVER_ON_START: Run discovery when the server starts (default: true)
//   - LENS_EXTRACT_TAKEN: Read the capture time from EXIF (default: false)
//   - LENS_INDEX_WORKERS: Concurrent extraction tasks (default: 2 per CPU)
//   - LENS_LOG_LEVEL: debug, info, warn, error (default: info)
//   - LENS_LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// [ReadConfig] parses the same variables without logging or creating
// directories, for tools such as lensctl.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
