package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_SummarizesEntries(t *testing.T) {
	repo := initRepo(t, map[string][]byte{"x": {1}, "gone": {2}})

	commit(t, repo)

	repo.write("x", []byte{5})
	repo.write("d/e/f", []byte("f"))
	repo.remove("gone")
	commit(t, repo)

	result, err := repo.open().Log(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	first := result.Entries[0]
	assert.Equal(t, "1700000000000000000", first.Name)
	assert.True(t, first.Time.Equal(baseTime))
	assert.Zero(t, first.ChangedFiles)
	assert.True(t, first.Empty)

	second := result.Entries[1]
	assert.True(t, second.Time.Equal(baseTime.Add(time.Second)))
	assert.Equal(t, 2, second.NewDirs)
	assert.Equal(t, 0, second.RemovedDirs)
	assert.Equal(t, 1, second.NewFiles)
	assert.Equal(t, 1, second.RemovedFiles)
	assert.Equal(t, 2, second.ChangedFiles)
	assert.False(t, second.Empty)
}

func TestLog_Empty(t *testing.T) {
	repo := initRepo(t, map[string][]byte{"x": {1}})

	result, err := repo.open().Log(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func TestLog_NotInitialized(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.open().Log(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}
