package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/pod/internal/fsops"
	"github.com/danieljhkim/pod/internal/ignore"
)

func newTree(t *testing.T) *fsops.BillyFS {
	t.Helper()
	fs := fsops.NewRealFS(t.TempDir())
	for path, data := range map[string]string{
		"a.txt":               "a",
		"d/b.txt":             "b",
		"d/e/c.txt":           "c",
		"d/tmp.log":           "log",
		"tmp.log/inside.txt":  "hidden",
		".pod/a.txt":          "snapshot",
		".commits/1/dirs":     "+ d\n",
		"nested/.pod/keep.md": "reserved names are skipped at any depth",
	} {
		require.NoError(t, fs.WriteFile(path, []byte(data), 0644))
	}
	require.NoError(t, fs.MkdirAll("empty", 0755))
	return fs
}

func TestWalk_Dirs(t *testing.T) {
	fs := newTree(t)

	dirs, err := Walk(fs, "", Dirs, ignore.New(".pod", ".commits", "tmp.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "d/e", "empty", "nested"}, dirs)
}

func TestWalk_Files(t *testing.T) {
	fs := newTree(t)

	files, err := Walk(fs, "", Files, ignore.New(".pod", ".commits", "tmp.log"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "d/b.txt", "d/e/c.txt"}, files)
}

func TestWalk_NoIgnore(t *testing.T) {
	fs := newTree(t)

	files, err := Walk(fs, "d", Files, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "e/c.txt", "tmp.log"}, files)
}

func TestWalk_MissingRoot(t *testing.T) {
	fs := fsops.NewRealFS(t.TempDir())

	_, err := Walk(fs, "missing", Files, nil)
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	fs := newTree(t)

	tree, err := Scan(fs, ".pod", ignore.New())
	require.NoError(t, err)
	assert.Empty(t, tree.Dirs)
	assert.Equal(t, map[string]struct{}{"a.txt": {}}, tree.Files)
}

func TestMethod_String(t *testing.T) {
	assert.Equal(t, "dirs", Dirs.String())
	assert.Equal(t, "files", Files.String())
	assert.Equal(t, "Method(7)", Method(7).String())
}
