package engine

import (
	"github.com/danieljhkim/pod/internal/delta"
)

// Record is the difference between the working tree and the baseline.
type Record struct {
	// NewDirs are directories in the working tree but not in the baseline
	NewDirs []string `json:"new_dirs"`

	// RemovedDirs are directories in the baseline but not in the working tree
	RemovedDirs []string `json:"removed_dirs"`

	// NewFiles are files in the working tree but not in the baseline
	NewFiles []string `json:"new_files"`

	// RemovedFiles are files in the baseline but not in the working tree
	RemovedFiles []string `json:"removed_files"`

	// ChangedFiles maps a path to its positional changes. New files always
	// have an entry; unchanged files have none.
	ChangedFiles map[string][]delta.Change `json:"changed_files"`
}

// Empty reports whether the working tree matches the baseline.
func (r *Record) Empty() bool {
	return len(r.NewDirs) == 0 && len(r.RemovedDirs) == 0 &&
		len(r.NewFiles) == 0 && len(r.RemovedFiles) == 0 &&
		len(r.ChangedFiles) == 0
}

// ModifiedFiles returns the changed paths that are not new, sorted.
func (r *Record) ModifiedFiles() []string {
	isNew := make(map[string]bool, len(r.NewFiles))
	for _, f := range r.NewFiles {
		isNew[f] = true
	}
	var out []string
	for _, f := range sortedKeys(r.ChangedFiles) {
		if !isNew[f] {
			out = append(out, f)
		}
	}
	return out
}

// CommitRequest represents a request to commit the working tree.
type CommitRequest struct {
	// DryRun computes the record without writing an entry
	DryRun bool
}

// CommitResult represents the result of a commit.
type CommitResult struct {
	// Entry is the name of the written entry (empty on dry run)
	Entry string `json:"entry,omitempty"`

	// Replayed is the number of prior entries replayed to build the baseline
	Replayed int `json:"replayed"`

	// Record is the computed difference
	Record *Record `json:"record"`

	// DryRun is true when nothing was written
	DryRun bool `json:"dry_run"`
}
