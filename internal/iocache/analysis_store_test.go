package iocache

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/commitstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWalkResult() *schema.WalkResult {
	stats := schema.NewStats()
	stats.NumCommitsToMaster = 2
	stats.NumPRs = 1
	stats.MissingPRs = 1
	stats.NumFileChanges = 3
	stats.ComponentStats["compA"] = 2
	stats.ComponentStats["compB"] = 1
	stats.ChangesByComponent["compA"] = schema.ComponentChanges{FilesAdded: 1, FilesModified: 1}
	stats.ChangesByComponent["compB"] = schema.ComponentChanges{FilesDeleted: 1}
	return &schema.WalkResult{
		RepoPath:          "/repo",
		HeadHash:          "abc123",
		Backend:           schema.GitCLIBackend,
		Commits:           2,
		DistinctPRNumbers: 1,
		Stats:             stats,
	}
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), "/repo", map[string]any{"workers": 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.EndRun(1, time.Now(), sampleWalkResult()))
	assert.NoError(t, store.RecordComponentStats(1, sampleWalkResult().Stats))

	runs, err := store.GetAllWalkRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestAnalysisStore_SQLite(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	startTime := time.Now().Add(-time.Second)
	runID, err := store.BeginRun(startTime, "/repo", map[string]any{"backend": "git", "workers": 4})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	result := sampleWalkResult()
	require.NoError(t, store.RecordComponentStats(runID, result.Stats))
	require.NoError(t, store.EndRun(runID, startTime.Add(1500*time.Millisecond), result))

	t.Run("walk runs", func(t *testing.T) {
		runs, err := store.GetAllWalkRuns()
		require.NoError(t, err)
		require.Len(t, runs, 1)

		run := runs[0]
		assert.Equal(t, runID, run.RunID)
		assert.Equal(t, "/repo", run.RepoPath)
		assert.Equal(t, "abc123", run.HeadHash)
		assert.Equal(t, int32(2), run.TotalCommits)
		assert.Equal(t, int32(1), run.TotalPRs)
		assert.Equal(t, int32(1), run.MissingPRs)
		assert.Equal(t, int32(3), run.FileChanges)
		assert.Equal(t, int32(1), run.DistinctPRNumbers)
		assert.WithinDuration(t, startTime, run.StartTime, time.Microsecond)
		require.NotNil(t, run.EndTime)
		require.NotNil(t, run.RunDurationMs)
		assert.Equal(t, int32(1500), *run.RunDurationMs)

		require.NotNil(t, run.ConfigParams)
		var params map[string]any
		require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &params))
		assert.Equal(t, "git", params["backend"])
	})

	t.Run("component stats", func(t *testing.T) {
		rows, err := store.GetAllComponentStats()
		require.NoError(t, err)
		assert.Equal(t, []schema.ComponentStatRecord{
			{RunID: runID, Component: "compA", Commits: 2, FilesAdded: 1, FilesModified: 1},
			{RunID: runID, Component: "compB", Commits: 1, FilesDeleted: 1},
		}, rows)
	})

	t.Run("in-flight run has null completion fields", func(t *testing.T) {
		id, err := store.BeginRun(time.Now(), "/other", nil)
		require.NoError(t, err)

		runs, err := store.GetAllWalkRuns()
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, id, runs[1].RunID)
		assert.Nil(t, runs[1].EndTime)
		assert.Nil(t, runs[1].RunDurationMs)
		assert.Empty(t, runs[1].HeadHash)
	})

	t.Run("status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalRuns)
		assert.Equal(t, runID+1, status.LastRunID)
		assert.Equal(t, int64(2), status.TotalCommitsWalked)
		assert.WithinDuration(t, startTime, status.OldestRunTime, time.Microsecond)
		assert.Equal(t, int64(2), status.TableSizes[walkRunsTable])
		assert.Equal(t, int64(2), status.TableSizes[componentStatsTable])
	})
}

func TestAnalysisStore_EndRunErrors(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.ErrorContains(t, store.EndRun(1, time.Now(), nil), "no walk result")

	err = store.EndRun(42, time.Now(), sampleWalkResult())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAnalysisStore_EmptyComponentStats(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.NoError(t, store.RecordComponentStats(1, schema.NewStats()))
	rows, err := store.GetAllComponentStats()
	require.NoError(t, err)
	assert.Empty(t, rows)
}
