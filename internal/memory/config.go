package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"lens/internal/logging"
)

// DefaultMemoryRatio is the share of container memory given to the Go heap.
// The remainder covers goroutine stacks and cgo allocations made by SQLite.
const DefaultMemoryRatio = 0.85

// Configuration sources reported in ConfigResult.Source.
const (
	SourceGoMemLimit     = "GOMEMLIMIT"
	SourceContainerLimit = "LENS_MEMORY_LIMIT"
	SourceNone           = "none"
)

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether a memory limit is in effect
	Configured bool

	// Source is one of the Source* constants
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if not set)
	ContainerLimit int64

	// GoMemLimit is the configured limit in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets the Go memory limit from the container limit.
func ConfigureFromEnv() ConfigResult {
	result := resolve(os.Getenv)

	switch result.Source {
	case SourceGoMemLimit:
		// The runtime already parsed GOMEMLIMIT; report what it settled on.
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", os.Getenv("GOMEMLIMIT"))
	case SourceContainerLimit:
		debug.SetMemoryLimit(result.GoMemLimit)
		logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
			FormatBytes(result.GoMemLimit),
			result.Ratio*100,
			FormatBytes(result.ContainerLimit),
		)
	}

	return result
}

// resolve computes the limit without applying it.
func resolve(getenv func(string) string) ConfigResult {
	if getenv("GOMEMLIMIT") != "" {
		return ConfigResult{Source: SourceGoMemLimit}
	}

	memLimitStr := getenv("LENS_MEMORY_LIMIT")
	if memLimitStr == "" {
		logging.Debug("LENS_MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return ConfigResult{Source: SourceNone}
	}

	memLimit, err := strconv.ParseInt(memLimitStr, 10, 64)
	if err != nil || memLimit <= 0 {
		logging.Warn("Ignoring invalid LENS_MEMORY_LIMIT %q", memLimitStr)
		return ConfigResult{Source: SourceNone}
	}

	ratio := DefaultMemoryRatio
	if ratioStr := getenv("LENS_MEMORY_RATIO"); ratioStr != "" {
		parsed, err := strconv.ParseFloat(ratioStr, 64)
		switch {
		case err != nil:
			logging.Warn("Failed to parse LENS_MEMORY_RATIO %q: %v, using default %.2f", ratioStr, err, DefaultMemoryRatio)
		case parsed <= 0 || parsed > 1.0:
			logging.Warn("LENS_MEMORY_RATIO %q out of range (0.0-1.0], using default %.2f", ratioStr, DefaultMemoryRatio)
		default:
			ratio = parsed
		}
	}

	return ConfigResult{
		Configured:     true,
		Source:         SourceContainerLimit,
		ContainerLimit: memLimit,
		GoMemLimit:     int64(float64(memLimit) * ratio),
		Ratio:          ratio,
	}
}

// FormatBytes formats a byte count using binary units.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
