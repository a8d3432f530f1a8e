package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/pod/internal/commitlog"
)

// Commit rebuilds the baseline, diffs the working tree against it and
// appends the difference to the log as a new entry.
//
// Behavior:
//   - Fails with ErrNotInitialized if there is no snapshot
//   - The entry is named by the clock's nanosecond timestamp, taken before the
//     baseline is rebuilt; it must sort after every existing entry
//   - An entry is written even when nothing changed
//   - With DryRun the record is returned and nothing is written
func (e *Engine) Commit(ctx context.Context, req *CommitRequest) (*CommitResult, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}

	release, err := e.locker.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	name := commitlog.EntryName(e.clock.Now())

	entries, err := e.log.Entries()
	if err != nil {
		return nil, err
	}

	var record *Record
	err = e.withBaseline(ctx, entries, func(scratch string) error {
		var err error
		record, err = e.diff(scratch)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &CommitResult{
		Replayed: len(entries),
		Record:   record,
		DryRun:   req.DryRun,
	}
	if req.DryRun {
		return result, nil
	}

	if err := e.checkOrder(name, entries); err != nil {
		return nil, err
	}

	entry, err := e.log.Create(name)
	if err != nil {
		return nil, err
	}
	if err := e.writeEntry(entry, record); err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"entry":         entry.Name,
		"new_dirs":      len(record.NewDirs),
		"removed_dirs":  len(record.RemovedDirs),
		"new_files":     len(record.NewFiles),
		"removed_files": len(record.RemovedFiles),
		"changed_files": len(record.ChangedFiles),
	}).Info("committed")

	result.Entry = entry.Name
	return result, nil
}

// checkOrder rejects a name that does not sort after the latest entry.
func (e *Engine) checkOrder(name string, entries []commitlog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	next, err := commitlog.ParseEntryName(name)
	if err != nil {
		return err
	}
	latest := entries[len(entries)-1]
	if next.Seq == latest.Seq {
		return fmt.Errorf("%w: %s", ErrEntryExists, name)
	}
	if next.Seq < latest.Seq {
		return fmt.Errorf("%w: %s is before %s", ErrClockRegressed, name, latest.Name)
	}
	return nil
}

// writeEntry persists record into entry. Each payload is written only when
// the fields it carries are non-empty.
func (e *Engine) writeEntry(entry commitlog.Entry, record *Record) error {
	if len(record.RemovedDirs) > 0 || len(record.NewDirs) > 0 {
		data := commitlog.FormatMutations(record.RemovedDirs, record.NewDirs)
		if err := e.log.WritePayload(entry, commitlog.DirsFile, data); err != nil {
			return err
		}
	}

	if len(record.RemovedFiles) > 0 || len(record.NewFiles) > 0 {
		data := commitlog.FormatMutations(record.RemovedFiles, record.NewFiles)
		if err := e.log.WritePayload(entry, commitlog.FilesFile, data); err != nil {
			return err
		}
	}

	if len(record.RemovedFiles) > 0 {
		data := commitlog.FormatRemovedFiles(record.RemovedFiles)
		if err := e.log.WritePayload(entry, commitlog.RemovedFilesFile, data); err != nil {
			return err
		}
	}

	for _, file := range sortedKeys(record.ChangedFiles) {
		if err := e.log.WriteChanges(entry, file, record.ChangedFiles[file]); err != nil {
			return err
		}
	}
	return nil
}
