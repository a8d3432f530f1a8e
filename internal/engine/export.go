package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/pod/internal/commitlog"
	"github.com/danieljhkim/pod/internal/fsops"
)

// ExportRequest represents a request to materialize a point of the history.
type ExportRequest struct {
	// Dest receives the tree; its root must be empty or missing
	Dest fsops.FS

	// At is the last entry to replay; empty means all entries
	At string
}

// ExportResult represents the result of an export.
type ExportResult struct {
	// Entry is the last replayed entry (empty when only the snapshot was exported)
	Entry string `json:"entry,omitempty"`

	// Replayed is the number of entries replayed
	Replayed int `json:"replayed"`
}

// Export rebuilds the baseline up to req.At and copies it into req.Dest.
func (e *Engine) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}

	existing, err := req.Dest.ReadDir("")
	if err == nil && len(existing) > 0 {
		return nil, ErrDestinationNotEmpty
	}

	release, err := e.locker.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	entries, err := e.log.Entries()
	if err != nil {
		return nil, err
	}
	if req.At != "" {
		last, ok, err := e.log.Find(req.At)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, req.At)
		}
		entries = upTo(entries, last)
	}

	err = e.withBaseline(ctx, entries, func(scratch string) error {
		if err := fsops.CopyTree(e.fs, scratch, req.Dest, ""); err != nil {
			return fmt.Errorf("failed to export baseline: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Replayed: len(entries)}
	if len(entries) > 0 {
		result.Entry = entries[len(entries)-1].Name
	}
	return result, nil
}

// upTo returns the prefix of entries that sort at or before last.
func upTo(entries []commitlog.Entry, last commitlog.Entry) []commitlog.Entry {
	n := 0
	for n < len(entries) && entries[n].Seq <= last.Seq {
		n++
	}
	return entries[:n]
}
