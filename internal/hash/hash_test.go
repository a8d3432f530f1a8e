package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/pod/internal/fsops"
)

func TestSHA256Hasher_HashFile(t *testing.T) {
	fs := fsops.NewRealFS(t.TempDir())
	hasher := NewSHA256Hasher()

	require.NoError(t, fs.WriteFile("a.txt", []byte("hello world"), 0644))
	require.NoError(t, fs.WriteFile("b.txt", []byte("hello world"), 0644))
	require.NoError(t, fs.WriteFile("c.txt", []byte("hello world!"), 0644))

	t.Run("known digest", func(t *testing.T) {
		got, err := hasher.HashFile(fs, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", got)
	})

	t.Run("same content same hash", func(t *testing.T) {
		a, err := hasher.HashFile(fs, "a.txt")
		require.NoError(t, err)
		b, err := hasher.HashFile(fs, "b.txt")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("different content different hash", func(t *testing.T) {
		a, err := hasher.HashFile(fs, "a.txt")
		require.NoError(t, err)
		c, err := hasher.HashFile(fs, "c.txt")
		require.NoError(t, err)
		assert.NotEqual(t, a, c)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := hasher.HashFile(fs, "missing.txt")
		assert.Error(t, err)
	})
}

func TestSum_Empty(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(nil))
}
