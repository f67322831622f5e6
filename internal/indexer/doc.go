// Package indexer keeps the image catalog in step with the media directory.
//
// A discovery run walks the media directory depth first using an explicit
// stack of pending directories. For each directory it:
//
//  1. lists the entries, pushing subdirectories onto the stack and keeping
//     files whose extension is gif, jpg, png or webp (case sensitive);
//  2. looks up each file's record by relative path and classifies it as new,
//     needing a reindex, or unchanged;
//  3. extracts metadata for the new and changed files concurrently, bounded
//     by the configured worker count;
//  4. applies the outcomes one at a time to the store as they complete.
//
// All of a directory's outcomes are applied before the next directory is
// listed. Extraction never writes to the store.
//
// Errors fall into two classes. A directory or entry that cannot be read,
// a relative path that is not UTF-8, or a store failure aborts the run. A
// file that cannot be read or decoded, or whose dimensions do not fit the
// catalog, is logged and skipped.
//
// Records for files that disappear are kept. Only one run executes at a
// time; an overlapping call to Discover fails with ErrDiscoveryInProgress.
package indexer
