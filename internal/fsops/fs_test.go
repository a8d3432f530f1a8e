package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRelPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "valid relative path", path: "foo/bar/baz.txt"},
		{name: "valid single file", path: "file.txt"},
		{name: "path with dot prefix", path: ".hidden/file.txt"},
		{name: "dots inside name", path: "a..b"},
		{name: "empty path", path: "", wantError: true},
		{name: "current directory", path: ".", wantError: true},
		{name: "absolute path", path: "/etc/hosts", wantError: true},
		{name: "parent directory traversal", path: "../etc/hosts", wantError: true},
		{name: "traversal in middle", path: "foo/../../../etc/hosts", wantError: true},
		{name: "backslash traversal", path: `..\secret`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelPath(tt.path)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateRelPath(%q) error = %v, wantError %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestBillyFS_Exists(t *testing.T) {
	root := t.TempDir()
	fs := NewRealFS(root)
	require.NoError(t, os.WriteFile(filepath.Join(root, "exists.txt"), []byte("test"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0755))

	for _, name := range []string{"exists.txt", "dir"} {
		exists, err := fs.Exists(name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	exists, err := fs.Exists("missing.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBillyFS_Mkdir(t *testing.T) {
	root := t.TempDir()
	fs := NewRealFS(root)

	require.NoError(t, fs.Mkdir("a", 0755))
	info, err := os.Stat(filepath.Join(root, "a"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = fs.Mkdir("a", 0755)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)

	require.NoError(t, fs.MkdirAll("a/b/c", 0755))
	require.NoError(t, fs.MkdirAll("a/b/c", 0755), "MkdirAll should be idempotent")
}

func TestBillyFS_WriteAndRead(t *testing.T) {
	root := t.TempDir()
	fs := NewRealFS(root)

	t.Run("write creates parents", func(t *testing.T) {
		require.NoError(t, fs.WriteFile("x/y/z.bin", []byte{0, 1, 2}, 0644))
		data, err := os.ReadFile(filepath.Join(root, "x", "y", "z.bin"))
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 1, 2}, data)
	})

	t.Run("write truncates", func(t *testing.T) {
		require.NoError(t, fs.WriteFile("t.bin", []byte("longer"), 0644))
		require.NoError(t, fs.WriteFile("t.bin", []byte("ab"), 0644))
		data, err := fs.ReadFile("t.bin")
		require.NoError(t, err)
		assert.Equal(t, "ab", string(data))
	})

	t.Run("atomic write leaves no temp files", func(t *testing.T) {
		require.NoError(t, fs.AtomicWrite("entry/dirs", []byte("+ d\n"), 0644))
		data, err := fs.ReadFile("entry/dirs")
		require.NoError(t, err)
		assert.Equal(t, "+ d\n", string(data))

		entries, err := fs.ReadDir("entry")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "dirs", entries[0].Name())
	})

	t.Run("empty file", func(t *testing.T) {
		require.NoError(t, fs.WriteFile("empty", nil, 0644))
		data, err := fs.ReadFile("empty")
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestBillyFS_RemoveAll(t *testing.T) {
	root := t.TempDir()
	fs := NewRealFS(root)
	require.NoError(t, fs.WriteFile("d/e/f", []byte("x"), 0644))

	require.NoError(t, fs.RemoveAll("d"))
	exists, err := fs.Exists("d")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, fs.RemoveAll("never-existed"))
}

func TestCopyTree(t *testing.T) {
	root := t.TempDir()
	fs := NewRealFS(root)
	require.NoError(t, fs.WriteFile("src/a.txt", []byte("A"), 0644))
	require.NoError(t, fs.WriteFile("src/sub/b.txt", []byte("BB"), 0644))
	require.NoError(t, fs.MkdirAll("src/empty", 0755))

	t.Run("within one filesystem", func(t *testing.T) {
		require.NoError(t, fs.Copy("src", "dst"))

		data, err := fs.ReadFile("dst/a.txt")
		require.NoError(t, err)
		assert.Equal(t, "A", string(data))

		data, err = fs.ReadFile("dst/sub/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "BB", string(data))

		info, err := fs.Stat("dst/empty")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("across filesystems", func(t *testing.T) {
		other := t.TempDir()
		require.NoError(t, CopyTree(fs, "src", NewRealFS(other), ""))

		data, err := os.ReadFile(filepath.Join(other, "sub", "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, "BB", string(data))
	})

	t.Run("single file", func(t *testing.T) {
		require.NoError(t, fs.Copy("src/a.txt", "copy.txt"))
		data, err := fs.ReadFile("copy.txt")
		require.NoError(t, err)
		assert.Equal(t, "A", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		assert.Error(t, fs.Copy("nope", "whatever"))
	})
}
