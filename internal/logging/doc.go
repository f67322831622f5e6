// Package logging provides the leveled logger used throughout lens.
//
// Levels, lowest first:
//   - DEBUG: per-file decisions made by the discovery pipeline
//   - INFO: run summaries, startup and shutdown
//   - WARN: files skipped during indexing
//   - ERROR: failures that do not stop the process
//   - FATAL: startup failures; the process exits
//
// The level is read once from LENS_LOG_LEVEL, or forced to debug with
// LENS_DEBUG=true. Command line tools may override it with SetLevel.
package logging
