// Package engine provides the core logic of pod.
//
// The engine owns the initial snapshot, the commit log and the scratch
// directory used to rebuild the baseline. Every commit replays the whole log
// over the snapshot, diffs the working tree against the result and appends
// the difference as a new entry.
//
// Key components:
//   - Init: freeze the working tree into the initial snapshot
//   - Commit: rebuild baseline, diff, write a new entry (or report it on dry run)
//   - Verify: compare the rebuilt baseline to the working tree by hash
//   - Log, Export: inspect the history and materialize any point of it
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/pod/internal/clock"
	"github.com/danieljhkim/pod/internal/commitlog"
	"github.com/danieljhkim/pod/internal/config"
	"github.com/danieljhkim/pod/internal/fsops"
	"github.com/danieljhkim/pod/internal/hash"
	"github.com/danieljhkim/pod/internal/ignore"
	"github.com/danieljhkim/pod/internal/lock"
)

// Engine orchestrates all pod operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs     fsops.FS
	ignore *ignore.Set
	log    *commitlog.Log
	hasher hash.Hasher
	clock  clock.Clock
	locker lock.Locker
	cfg    config.Config
	logger logrus.FieldLogger
}

// New creates a new Engine. fs must be rooted at the working tree and skip
// must already contain the reserved names from cfg.
func New(
	fs fsops.FS,
	skip *ignore.Set,
	hasher hash.Hasher,
	clk clock.Clock,
	locker lock.Locker,
	cfg config.Config,
	logger logrus.FieldLogger,
) *Engine {
	return &Engine{
		fs:     fs,
		ignore: skip,
		log:    commitlog.New(fs, cfg.CommitsDir),
		hasher: hasher,
		clock:  clk,
		locker: locker,
		cfg:    cfg,
		logger: logger,
	}
}

// Initialized reports whether the initial snapshot exists.
func (e *Engine) Initialized() (bool, error) {
	exists, err := e.fs.Exists(e.cfg.SnapshotDir)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	return exists, nil
}

func (e *Engine) requireInitialized() error {
	ok, err := e.Initialized()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotInitialized
	}
	return nil
}
