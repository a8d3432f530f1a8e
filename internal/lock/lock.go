// Package lock provides the exclusive repository lock taken around every
// operation that touches the scratch directory or the commit log.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock past the deadline.
var ErrLocked = errors.New("repository is locked by another process")

// Locker acquires an exclusive lock. The returned function releases it.
type Locker interface {
	Lock(ctx context.Context) (release func(), err error)
}

// FileLocker is a Locker backed by an advisory file lock.
type FileLocker struct {
	path       string
	retryDelay time.Duration
	timeout    time.Duration
}

// NewFileLocker returns a FileLocker on path. Acquisition retries every
// retryDelay until timeout elapses or ctx is done.
func NewFileLocker(path string, retryDelay, timeout time.Duration) *FileLocker {
	return &FileLocker{path: path, retryDelay: retryDelay, timeout: timeout}
}

// Lock acquires the lock, creating its parent directory if needed.
func (l *FileLocker) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	fl := flock.New(l.path)
	locked, err := fl.TryLockContext(ctx, l.retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
	}

	return func() {
		_ = fl.Unlock()
	}, nil
}
