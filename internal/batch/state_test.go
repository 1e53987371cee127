package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), stateFileName)

	st := newState()
	st.markCompleted("/videos/a.mp4")
	st.markFailed("/videos/b.mp4", "transcription failed")
	require.NoError(t, st.save(path))

	loaded, err := loadState(path)
	require.NoError(t, err)
	assert.True(t, loaded.isCompleted("/videos/a.mp4"))
	assert.False(t, loaded.isCompleted("/videos/b.mp4"))
	assert.Equal(t, "transcription failed", loaded.Failed["/videos/b.mp4"])
}

func TestLoadState_MissingFileIsEmpty(t *testing.T) {
	st, err := loadState(filepath.Join(t.TempDir(), stateFileName))
	require.NoError(t, err)
	assert.Empty(t, st.Completed)
	assert.NotNil(t, st.Failed)
}

func TestLoadState_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), stateFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := loadState(path)
	assert.Error(t, err)
}

func TestMarkCompleted_ClearsEarlierFailure(t *testing.T) {
	st := newState()
	st.markFailed("/videos/a.mp4", "boom")
	st.markCompleted("/videos/a.mp4")
	assert.True(t, st.isCompleted("/videos/a.mp4"))
	assert.NotContains(t, st.Failed, "/videos/a.mp4")
}

func TestClearState(t *testing.T) {
	path := filepath.Join(t.TempDir(), stateFileName)
	require.NoError(t, newState().save(path))
	require.NoError(t, clearState(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Already gone is not an error.
	assert.NoError(t, clearState(path))
}
