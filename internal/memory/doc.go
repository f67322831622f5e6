// Package memory configures Go's soft memory limit for containerized
// deployments.
//
// Decoding an image holds the whole file and its decoded pixels in memory at
// once, and discovery decodes several images in parallel. Unlike GOMAXPROCS,
// which Go derives from cgroup CPU limits, GOMEMLIMIT must be set explicitly,
// so [ConfigureFromEnv] should be called early in main before significant
// allocations occur.
//
// # Environment Variables
//
//   - GOMEMLIMIT: Standard Go variable. If set, it takes precedence and is
//     only reported.
//
//   - LENS_MEMORY_LIMIT: Container memory limit in bytes, typically injected
//     through the Kubernetes Downward API from limits.memory.
//
//   - LENS_MEMORY_RATIO: Share of LENS_MEMORY_LIMIT given to the Go heap, a
//     decimal in (0, 1]. Default is [DefaultMemoryRatio].
package memory
