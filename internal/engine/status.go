package engine

import (
	"context"
)

// StatusResult describes pending changes against the last commit.
type StatusResult struct {
	// Initialized is false when there is no snapshot yet
	Initialized bool `json:"initialized"`

	// Entries is the number of commits in the log
	Entries int `json:"entries"`

	// Latest is the name of the newest entry, if any
	Latest string `json:"latest,omitempty"`

	// Record is the pending difference (nil when not initialized)
	Record *Record `json:"record,omitempty"`
}

// Status reports what the next commit would record without writing it.
// An uninitialized tree is not an error here.
func (e *Engine) Status(ctx context.Context) (*StatusResult, error) {
	initialized, err := e.Initialized()
	if err != nil {
		return nil, err
	}
	if !initialized {
		return &StatusResult{}, nil
	}

	commit, err := e.Commit(ctx, &CommitRequest{DryRun: true})
	if err != nil {
		return nil, err
	}

	latest, ok, err := e.log.Latest()
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		Initialized: true,
		Entries:     commit.Replayed,
		Record:      commit.Record,
	}
	if ok {
		result.Latest = latest.Name
	}
	return result, nil
}
