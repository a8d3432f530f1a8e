package engine

import (
	"context"
	"fmt"
	"path"

	"github.com/danieljhkim/pod/internal/walk"
)

// VerifyResult reports how the working tree compares to the last commit.
type VerifyResult struct {
	// Clean is true when the working tree matches the rebuilt baseline
	Clean bool `json:"clean"`

	// Replayed is the number of entries replayed
	Replayed int `json:"replayed"`

	// Modified lists files whose content hash differs
	Modified []string `json:"modified"`

	// Missing lists baseline paths absent from the working tree (dirs end in "/")
	Missing []string `json:"missing"`

	// Extra lists working tree paths absent from the baseline (dirs end in "/")
	Extra []string `json:"extra"`
}

// Verify rebuilds the baseline and compares it with the working tree by
// SHA-256 digest. It never writes to the log.
func (e *Engine) Verify(ctx context.Context) (*VerifyResult, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
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

	result := &VerifyResult{
		Replayed: len(entries),
		Modified: []string{},
		Missing:  []string{},
		Extra:    []string{},
	}

	err = e.withBaseline(ctx, entries, func(scratch string) error {
		current, err := walk.Scan(e.fs, "", e.ignore)
		if err != nil {
			return fmt.Errorf("failed to enumerate working tree: %w", err)
		}
		baseline, err := walk.Scan(e.fs, scratch, e.ignore)
		if err != nil {
			return fmt.Errorf("failed to enumerate baseline: %w", err)
		}

		for _, dir := range difference(baseline.Dirs, current.Dirs) {
			result.Missing = append(result.Missing, dir+"/")
		}
		for _, dir := range difference(current.Dirs, baseline.Dirs) {
			result.Extra = append(result.Extra, dir+"/")
		}
		result.Missing = append(result.Missing, difference(baseline.Files, current.Files)...)
		result.Extra = append(result.Extra, difference(current.Files, baseline.Files)...)

		for _, file := range sortedKeys(current.Files) {
			if _, ok := baseline.Files[file]; !ok {
				continue
			}
			want, err := e.hasher.HashFile(e.fs, path.Join(scratch, file))
			if err != nil {
				return fmt.Errorf("failed to hash baseline %s: %w", file, err)
			}
			got, err := e.hasher.HashFile(e.fs, file)
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", file, err)
			}
			if want != got {
				result.Modified = append(result.Modified, file)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Clean = len(result.Modified) == 0 && len(result.Missing) == 0 && len(result.Extra) == 0
	return result, nil
}
