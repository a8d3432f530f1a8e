package engine

import (
	"errors"

	"github.com/danieljhkim/pod/internal/commitlog"
	"github.com/danieljhkim/pod/internal/config"
	"github.com/danieljhkim/pod/internal/lock"
)

var (
	// ErrAlreadyInitialized indicates Init ran on a tree that already has a snapshot.
	ErrAlreadyInitialized = errors.New("pod already initialized")

	// ErrNotInitialized indicates an operation needs the initial snapshot first.
	ErrNotInitialized = errors.New("pod needs to first be initialized")

	// ErrUnknownMode indicates MODE is unset or unrecognized.
	ErrUnknownMode = config.ErrUnknownMode

	// ErrScratchExists indicates a previous run left its scratch directory behind.
	ErrScratchExists = errors.New("scratch directory already exists")

	// ErrLocked indicates another process holds the repository lock.
	ErrLocked = lock.ErrLocked

	// ErrMalformed indicates a commit entry this engine could not parse.
	ErrMalformed = commitlog.ErrMalformed

	// ErrEntryExists indicates two commits got the same timestamp.
	ErrEntryExists = commitlog.ErrEntryExists

	// ErrClockRegressed indicates the new entry name does not sort after the last one.
	ErrClockRegressed = errors.New("clock regressed behind the latest commit")

	// ErrDirExists indicates replay tried to create a directory that is already there.
	ErrDirExists = errors.New("directory already exists during replay")

	// ErrEntryNotFound indicates a requested commit entry does not exist.
	ErrEntryNotFound = errors.New("commit entry not found")

	// ErrDrift indicates the working tree differs from the last commit.
	ErrDrift = errors.New("drift detected")

	// ErrDestinationNotEmpty indicates an export target already has content.
	ErrDestinationNotEmpty = errors.New("export destination is not empty")
)
