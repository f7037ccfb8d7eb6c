package jobstate_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-report-backend/internal/jobstate"
)

func TestLoadState_MissingFile(t *testing.T) {
	m := jobstate.NewManager(filepath.Join(t.TempDir(), "state.json"))
	state, err := m.LoadState()
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestLoadState_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	state, err := jobstate.NewManager(path).LoadState()
	require.NoError(t, err)
	assert.NotNil(t, state)
	assert.Empty(t, state)
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := jobstate.NewManager(path).LoadState()
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	m := jobstate.NewManager(path)

	started := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	state := jobstate.State{
		"daily_users": {RunID: "run-1", Status: jobstate.StatusSucceeded, StartedAt: started, Rows: 31, LastSuccessAt: &started},
		"by_country":  {RunID: "run-1", Status: jobstate.StatusFailed, StartedAt: started, Error: "boom"},
	}
	require.NoError(t, m.SaveState(state))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := m.LoadState()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 31, loaded["daily_users"].Rows)
	assert.True(t, started.Equal(*loaded["daily_users"].LastSuccessAt))
	assert.Equal(t, jobstate.StatusFailed, loaded["by_country"].Status)
	assert.Equal(t, "boom", loaded["by_country"].Error)
	assert.Equal(t, path, m.GetStateFilePath())
}
