package engine

import (
	"context"
	"time"

	"github.com/danieljhkim/pod/internal/commitlog"
)

// LogEntry summarizes one commit entry.
type LogEntry struct {
	Name         string    `json:"name"`
	Time         time.Time `json:"time"`
	NewDirs      int       `json:"new_dirs"`
	RemovedDirs  int       `json:"removed_dirs"`
	NewFiles     int       `json:"new_files"`
	RemovedFiles int       `json:"removed_files"`
	ChangedFiles int       `json:"changed_files"`
	Empty        bool      `json:"empty"`
}

// LogResult lists the commit history in replay order.
type LogResult struct {
	Entries []LogEntry `json:"entries"`
}

// Log reads every entry and summarizes its payloads.
func (e *Engine) Log(ctx context.Context) (*LogResult, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}

	entries, err := e.log.Entries()
	if err != nil {
		return nil, err
	}

	result := &LogResult{Entries: make([]LogEntry, 0, len(entries))}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := e.log.Read(entry)
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, summarize(entry, payload))
	}
	return result, nil
}

func summarize(entry commitlog.Entry, p *commitlog.Payload) LogEntry {
	s := LogEntry{
		Name:         entry.Name,
		Time:         entry.Time(),
		RemovedFiles: len(p.RemovedFiles),
		ChangedFiles: len(p.Changes),
		Empty:        p.Empty(),
	}
	for _, m := range p.Dirs {
		if m.Op == commitlog.OpAdd {
			s.NewDirs++
		} else {
			s.RemovedDirs++
		}
	}
	for _, m := range p.Files {
		if m.Op == commitlog.OpAdd {
			s.NewFiles++
		}
	}
	return s
}
