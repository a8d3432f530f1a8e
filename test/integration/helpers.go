// Package integration drives a pod engine over a real working tree.
package integration

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/pod/internal/clock"
	"github.com/danieljhkim/pod/internal/config"
	"github.com/danieljhkim/pod/internal/engine"
	"github.com/danieljhkim/pod/internal/fsops"
	"github.com/danieljhkim/pod/internal/hash"
	"github.com/danieljhkim/pod/internal/ignore"
	"github.com/danieljhkim/pod/internal/lock"
)

// workspace is a working tree on disk plus the dependencies an engine needs.
type workspace struct {
	t     *testing.T
	root  string
	cfg   *config.Config
	clock *clock.FakeClock
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	return &workspace{
		t:     t,
		root:  root,
		cfg:   config.Default(root),
		clock: clock.NewSteppingClock(time.Unix(1700000000, 0), time.Millisecond),
	}
}

// engine builds an engine the way a fresh process would.
func (w *workspace) engine(locker lock.Locker) *engine.Engine {
	w.t.Helper()
	fs := fsops.NewRealFS(w.root)
	skip, err := ignore.Load(fs, w.cfg)
	if err != nil {
		w.t.Fatalf("failed to load ignore set: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if locker == nil {
		locker = w.locker(time.Second)
	}
	return engine.New(fs, skip, hash.NewSHA256Hasher(), w.clock, locker, *w.cfg, logger)
}

func (w *workspace) locker(timeout time.Duration) *lock.FileLocker {
	return lock.NewFileLocker(w.cfg.LockPath(), time.Millisecond, timeout)
}

func (w *workspace) path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

func (w *workspace) write(rel string, data []byte) {
	w.t.Helper()
	if err := os.MkdirAll(filepath.Dir(w.path(rel)), 0755); err != nil {
		w.t.Fatalf("failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(w.path(rel), data, 0644); err != nil {
		w.t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func (w *workspace) remove(rel string) {
	w.t.Helper()
	if err := os.RemoveAll(w.path(rel)); err != nil {
		w.t.Fatalf("failed to remove %s: %v", rel, err)
	}
}

// payload reads a file of a commit entry, reporting whether it exists.
func (w *workspace) payload(entry string, elem ...string) (string, bool) {
	w.t.Helper()
	parts := append([]string{w.root, w.cfg.CommitsDir, entry}, elem...)
	data, err := os.ReadFile(filepath.Join(parts...))
	if os.IsNotExist(err) {
		return "", false
	}
	if err != nil {
		w.t.Fatalf("failed to read payload: %v", err)
	}
	return string(data), true
}

// payloadNames lists the top-level files of a commit entry.
func (w *workspace) payloadNames(entry string) []string {
	w.t.Helper()
	infos, err := os.ReadDir(filepath.Join(w.root, w.cfg.CommitsDir, entry))
	if err != nil {
		w.t.Fatalf("failed to list entry %s: %v", entry, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names
}

// mustPayload reads a file of a commit entry that has to exist.
func (w *workspace) mustPayload(entry string, elem ...string) string {
	w.t.Helper()
	body, ok := w.payload(entry, elem...)
	if !ok {
		w.t.Fatalf("entry %s has no %v", entry, elem)
	}
	return body
}
