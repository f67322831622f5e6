package indexer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lens/internal/logging"
	"lens/internal/mediatypes"
)

// DiscoveredFile is an image candidate found by the walker.
type DiscoveredFile struct {
	AbsPath string
	// RelPath is relative to the media directory, slash separated.
	RelPath string
	// Info is captured at listing time without following symlinks.
	Info fs.FileInfo
}

// Directory is one listed directory and its image candidates in listing order.
type Directory struct {
	Path  string
	Files []DiscoveredFile
}

// Walker enumerates a directory tree one directory at a time, depth first,
// using an explicit stack.
type Walker struct {
	root  string
	stack []string
}

// NewWalker creates a walker rooted at root.
func NewWalker(root string) *Walker {
	return &Walker{
		root:  root,
		stack: []string{root},
	}
}

// Next pops a pending directory, lists it and pushes its subdirectories.
// It returns false once the stack is empty. Any error reading the directory
// or an entry's metadata is returned as is and the walk should stop.
func (w *Walker) Next() (*Directory, bool, error) {
	if len(w.stack) == 0 {
		return nil, false, nil
	}

	dir := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	listing := &Directory{Path: dir}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, false, fmt.Errorf("failed to read metadata for %s: %w",
				filepath.Join(dir, entry.Name()), err)
		}

		absPath := filepath.Join(dir, entry.Name())

		if info.IsDir() {
			w.stack = append(w.stack, absPath)
			continue
		}

		if !mediatypes.IsImage(entry.Name()) {
			continue
		}

		if !info.Mode().IsRegular() {
			logging.Debug("Skipping non-regular file %s (mode %v)", absPath, info.Mode())
			continue
		}

		relPath, err := filepath.Rel(w.root, absPath)
		if err != nil {
			return nil, false, fmt.Errorf("failed to relativize %s: %w", absPath, err)
		}

		listing.Files = append(listing.Files, DiscoveredFile{
			AbsPath: absPath,
			RelPath: filepath.ToSlash(relPath),
			Info:    info,
		})
	}

	return listing, true, nil
}

// Pending returns the number of directories waiting to be listed.
func (w *Walker) Pending() int {
	return len(w.stack)
}
