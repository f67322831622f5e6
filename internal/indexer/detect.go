package indexer

import (
	"lens/internal/database"
	"lens/internal/logging"
	"lens/internal/media"
)

// Decision is the change detector's verdict for one file.
type Decision int

const (
	// DecisionUnchanged means the record matches the file.
	DecisionUnchanged Decision = iota
	// DecisionNew means no record exists for the path.
	DecisionNew
	// DecisionReindex means the record exists but the file has changed.
	DecisionReindex
)

func (d Decision) String() string {
	switch d {
	case DecisionNew:
		return "new"
	case DecisionReindex:
		return "reindex"
	default:
		return "unchanged"
	}
}

// modifiedState is the result of comparing a stored modification time with
// the filesystem's.
type modifiedState int

const (
	modifiedEqual modifiedState = iota
	modifiedDiffers
	modifiedUnknown
)

func compareModified(stored *database.Image, file DiscoveredFile) modifiedState {
	current, ok := media.ModTime(file.Info)
	if !ok {
		return modifiedUnknown
	}
	if current.Equal(*stored.Modified) {
		return modifiedEqual
	}
	return modifiedDiffers
}

// Classify decides whether file needs indexing. existing is the record
// stored under file.RelPath, or nil.
//
// A size difference always means reindex. With equal sizes the stored
// modification time is compared to the file's. If the file's modification
// time cannot be determined the file is treated as unchanged, so transient
// metadata failures do not trigger reindexing. A record without a stored
// modification time is unchanged unless its size differs.
func Classify(file DiscoveredFile, existing *database.Image) Decision {
	if existing == nil {
		return DecisionNew
	}

	if existing.FileSize != file.Info.Size() {
		return DecisionReindex
	}

	if existing.Modified == nil {
		return DecisionUnchanged
	}

	switch compareModified(existing, file) {
	case modifiedDiffers:
		return DecisionReindex
	case modifiedUnknown:
		logging.Error("Unable to get modification time of %s, assuming unchanged", file.RelPath)
		return DecisionUnchanged
	default:
		return DecisionUnchanged
	}
}
