package engine

import (
	"context"
	"fmt"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/pod/internal/walk"
)

// InitResult represents the result of initializing a working tree.
type InitResult struct {
	// Snapshot is the snapshot root relative to the working tree
	Snapshot string `json:"snapshot"`

	// Dirs is the number of directories captured
	Dirs int `json:"dirs"`

	// Files is the number of files captured
	Files int `json:"files"`
}

// Init copies the working tree into the initial snapshot. Ignored names are
// left out. It fails with ErrAlreadyInitialized if the snapshot exists.
func (e *Engine) Init(ctx context.Context) (*InitResult, error) {
	initialized, err := e.Initialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, ErrAlreadyInitialized
	}

	release, err := e.locker.Lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	dirs, err := walk.Walk(e.fs, "", walk.Dirs, e.ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate directories: %w", err)
	}
	files, err := walk.Walk(e.fs, "", walk.Files, e.ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate files: %w", err)
	}

	snapshot := e.cfg.SnapshotDir
	if err := e.fs.Mkdir(snapshot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}

	if err := e.mirror(snapshot, dirs, files); err != nil {
		// Leave no half-written snapshot behind; a retry would otherwise
		// see ErrAlreadyInitialized.
		if rmErr := e.fs.RemoveAll(snapshot); rmErr != nil {
			e.logger.WithError(rmErr).Warn("failed to remove partial snapshot")
		}
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"snapshot": snapshot,
		"dirs":     len(dirs),
		"files":    len(files),
	}).Info("initialized snapshot")

	return &InitResult{Snapshot: snapshot, Dirs: len(dirs), Files: len(files)}, nil
}

// mirror recreates dirs and copies files under dst.
func (e *Engine) mirror(dst string, dirs, files []string) error {
	for _, dir := range dirs {
		if err := e.fs.MkdirAll(path.Join(dst, dir), 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}
	for _, file := range files {
		if err := e.fs.Copy(file, path.Join(dst, file)); err != nil {
			return fmt.Errorf("failed to copy %s into snapshot: %w", file, err)
		}
	}
	return nil
}
