package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/pod/internal/commitlog"
	"github.com/danieljhkim/pod/internal/delta"
)

// acquireScratch creates the scratch directory and returns a release func
// that removes it. It fails with ErrScratchExists if a previous run left the
// directory behind.
func (e *Engine) acquireScratch() (string, func(), error) {
	scratch := e.cfg.ScratchPath()
	if err := e.fs.MkdirAll(e.cfg.CommitsDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create commit log: %w", err)
	}
	if err := e.fs.Mkdir(scratch, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("%w: remove %s and retry", ErrScratchExists, scratch)
		}
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	release := func() {
		if err := e.fs.RemoveAll(scratch); err != nil {
			e.logger.WithError(err).WithField("scratch", scratch).Warn("failed to remove scratch directory")
		}
	}
	return scratch, release, nil
}

// rebuild materializes the baseline in scratch: a copy of the snapshot with
// every entry replayed in order.
func (e *Engine) rebuild(ctx context.Context, scratch string, entries []commitlog.Entry) error {
	if err := e.fs.Copy(e.cfg.SnapshotDir, scratch); err != nil {
		return fmt.Errorf("failed to copy snapshot: %w", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := e.log.Read(entry)
		if err != nil {
			return err
		}
		if err := e.replay(scratch, entry, payload); err != nil {
			return fmt.Errorf("failed to replay entry %s: %w", entry.Name, err)
		}
	}

	e.logger.WithField("entries", len(entries)).Debug("rebuilt baseline")
	return nil
}

// replay applies one entry to the tree at root: directory mutations, then
// file removals, then per-file changes.
func (e *Engine) replay(root string, entry commitlog.Entry, p *commitlog.Payload) error {
	log := e.logger.WithField("entry", entry.Name)

	removed := make(map[string]bool, len(p.RemovedFiles))
	for _, file := range p.RemovedFiles {
		removed[file] = true
	}
	added := make(map[string]bool)

	for _, m := range p.Dirs {
		target := path.Join(root, m.Path)
		switch m.Op {
		case commitlog.OpAdd:
			// A file turned into a directory: the file removal listed in
			// this same entry has to happen first.
			if removed[m.Path] {
				if err := e.removeFileIfPresent(target); err != nil {
					return fmt.Errorf("failed to remove file %s: %w", m.Path, err)
				}
			}
			if err := e.fs.Mkdir(target, 0755); err != nil {
				if errors.Is(err, os.ErrExist) {
					return fmt.Errorf("%w: %s", ErrDirExists, m.Path)
				}
				return fmt.Errorf("failed to create directory %s: %w", m.Path, err)
			}
			added[m.Path] = true
		case commitlog.OpRemove:
			if err := e.fs.RemoveAll(target); err != nil {
				return fmt.Errorf("failed to remove directory %s: %w", m.Path, err)
			}
		}
	}

	for _, file := range p.RemovedFiles {
		if added[file] {
			continue
		}
		if err := e.removeFileIfPresent(path.Join(root, file)); err != nil {
			return fmt.Errorf("failed to remove file %s: %w", file, err)
		}
	}

	paths := make([]string, 0, len(p.Changes))
	for relPath := range p.Changes {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	for _, relPath := range paths {
		changes := p.Changes[relPath]
		if err := e.applyChanges(path.Join(root, relPath), changes); err != nil {
			return fmt.Errorf("failed to apply changes to %s: %w", relPath, err)
		}
		log.WithFields(logrus.Fields{"path": relPath, "changes": len(changes)}).Trace("applied changes")
	}
	return nil
}

// removeFileIfPresent removes a file that may already be gone with a
// directory removed earlier in the same entry.
func (e *Engine) removeFileIfPresent(target string) error {
	exists, err := e.fs.Exists(target)
	if err != nil || !exists {
		return err
	}
	return e.fs.Remove(target)
}

// applyChanges rewrites target through a sparse buffer. A missing target is
// created from an empty buffer.
func (e *Engine) applyChanges(target string, changes []delta.Change) error {
	exists, err := e.fs.Exists(target)
	if err != nil {
		return err
	}

	var current []byte
	if exists {
		if current, err = e.fs.ReadFile(target); err != nil {
			return err
		}
	}

	next, err := delta.Replay(current, changes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return e.fs.WriteFile(target, next, 0644)
}

// withBaseline acquires scratch, rebuilds the baseline from entries and runs
// fn on it. Scratch is removed on every return path.
func (e *Engine) withBaseline(ctx context.Context, entries []commitlog.Entry, fn func(scratch string) error) error {
	scratch, release, err := e.acquireScratch()
	if err != nil {
		return err
	}
	defer release()

	if err := e.rebuild(ctx, scratch, entries); err != nil {
		return err
	}
	return fn(scratch)
}
