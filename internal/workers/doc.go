/*
Package workers sizes the per-directory extraction pool used during
discovery.

# Overview

Inside a container the number of usable CPUs may be limited by cgroup
constraints. Go sets GOMAXPROCS from the container CPU limit, while
runtime.NumCPU() still reports the host's CPU count:

	// Returns 64 on a 64-core node, ignoring a 2 CPU limit
	n := runtime.NumCPU()

	// Returns 2
	n := runtime.GOMAXPROCS(0)

Count scales GOMAXPROCS by a workload multiplier and caps the result.
Extraction reads whole files and then decodes them, so the indexer uses the
I/O-bound ratio:

	limit := workers.ForIO(64) // 2 per available CPU, at most 64

# Environment Variable Override

LENS_INDEX_WORKERS replaces the computed value when it parses as a positive
integer. The cap passed to Count still applies:

	env:
	- name: LENS_INDEX_WORKERS
	  value: "4"

Invalid or non-positive values are ignored.

# Thread Safety

All functions are safe for concurrent use.
*/
package workers
