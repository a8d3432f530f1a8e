package engine

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/pod/internal/clock"
	"github.com/danieljhkim/pod/internal/config"
	"github.com/danieljhkim/pod/internal/fsops"
	"github.com/danieljhkim/pod/internal/hash"
	"github.com/danieljhkim/pod/internal/ignore"
	"github.com/danieljhkim/pod/internal/lock"
)

// testRepo is a working tree in a temp dir with an engine on top of it.
type testRepo struct {
	t      *testing.T
	root   string
	cfg    *config.Config
	clock  *clock.FakeClock
	engine *Engine
}

var baseTime = time.Unix(1700000000, 0)

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	root := t.TempDir()
	return &testRepo{
		t:     t,
		root:  root,
		cfg:   config.Default(root),
		clock: clock.NewSteppingClock(baseTime, time.Second),
	}
}

// open builds a fresh engine, re-reading the ignore file like a new process.
func (r *testRepo) open() *Engine {
	r.t.Helper()
	fs := fsops.NewRealFS(r.root)
	skip, err := ignore.Load(fs, r.cfg)
	require.NoError(r.t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r.engine = New(fs, skip, hash.NewSHA256Hasher(), r.clock,
		lock.NewFileLocker(r.cfg.LockPath(), time.Millisecond, time.Second), *r.cfg, logger)
	return r.engine
}

func (r *testRepo) write(rel string, data []byte) {
	r.t.Helper()
	full := filepath.Join(r.root, filepath.FromSlash(rel))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(r.t, os.WriteFile(full, data, 0644))
}

func (r *testRepo) mkdir(rel string) {
	r.t.Helper()
	require.NoError(r.t, os.MkdirAll(filepath.Join(r.root, filepath.FromSlash(rel)), 0755))
}

func (r *testRepo) remove(rel string) {
	r.t.Helper()
	require.NoError(r.t, os.RemoveAll(filepath.Join(r.root, filepath.FromSlash(rel))))
}

func (r *testRepo) read(rel string) []byte {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
	require.NoError(r.t, err)
	return data
}

func (r *testRepo) exists(rel string) bool {
	r.t.Helper()
	_, err := os.Lstat(filepath.Join(r.root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(r.t, err)
	return true
}

// entryFile reads a payload of a commit entry.
func (r *testRepo) entryFile(entry string, elem ...string) (string, bool) {
	r.t.Helper()
	parts := append([]string{r.root, r.cfg.CommitsDir, entry}, elem...)
	data, err := os.ReadFile(filepath.Join(parts...))
	if os.IsNotExist(err) {
		return "", false
	}
	require.NoError(r.t, err)
	return string(data), true
}

// entryNames lists the files inside a commit entry, recursively and sorted.
func (r *testRepo) entryNames(entry string) []string {
	r.t.Helper()
	base := filepath.Join(r.root, r.cfg.CommitsDir, entry)
	var names []string
	err := filepath.Walk(base, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == base {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(r.t, err)
	sort.Strings(names)
	return names
}

// snapshotTree returns every non-ignored file of the working tree with its
// content, plus every directory mapped to nil.
func snapshotTree(t *testing.T, root string, skip ...string) map[string][]byte {
	t.Helper()
	ignored := map[string]bool{}
	for _, s := range skip {
		ignored[s] = true
	}

	tree := map[string][]byte{}
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if ignored[info.Name()] {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			tree[rel+"/"] = nil
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		tree[rel] = data
		return nil
	})
	require.NoError(t, err)
	return tree
}
