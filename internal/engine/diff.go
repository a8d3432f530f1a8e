package engine

import (
	"fmt"
	"path"
	"sort"

	"github.com/danieljhkim/pod/internal/delta"
	"github.com/danieljhkim/pod/internal/walk"
)

// diff compares the working tree with the baseline rooted at base. Both sides
// are enumerated with the ignore set, so every baseline directory is scanned
// for files whether or not it still exists in the working tree.
func (e *Engine) diff(base string) (*Record, error) {
	current, err := walk.Scan(e.fs, "", e.ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate working tree: %w", err)
	}
	baseline, err := walk.Scan(e.fs, base, e.ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate baseline: %w", err)
	}

	record := &Record{
		NewDirs:      difference(current.Dirs, baseline.Dirs),
		RemovedDirs:  difference(baseline.Dirs, current.Dirs),
		NewFiles:     []string{},
		RemovedFiles: difference(baseline.Files, current.Files),
		ChangedFiles: map[string][]delta.Change{},
	}

	for _, file := range sortedKeys(current.Files) {
		data, err := e.fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, ok := baseline.Files[file]; !ok {
			record.NewFiles = append(record.NewFiles, file)
			record.ChangedFiles[file] = delta.Full(data)
			continue
		}

		old, err := e.fs.ReadFile(path.Join(base, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read baseline %s: %w", file, err)
		}
		if changes := delta.Diff(data, old); len(changes) > 0 {
			record.ChangedFiles[file] = changes
		}
	}

	return record, nil
}

// difference returns the sorted members of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	out := []string{}
	for p := range a {
		if _, ok := b[p]; !ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
