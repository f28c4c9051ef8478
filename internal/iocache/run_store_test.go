package iocache

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRunStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), map[string]any{"workers": 2})
	require.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.EndRun(1, time.Now(), 3))
	assert.NoError(t, store.RecordMetricResult(1, "web", schema.MetricResult{}, false))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestRunStore_SQLiteLifecycle(t *testing.T) {
	store := newSQLiteRunStore(t)

	start := time.Now().Add(-2 * time.Second)
	runID, err := store.BeginRun(start, map[string]any{"workers": 4, "fetch": true})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	hit := schema.MetricResult{
		Info:           schema.MetricInfo{Name: "has_readme", Group: schema.HasGroup},
		Result:         map[string]any{"result": "true"},
		HashLastCommit: "abc123",
	}
	miss := schema.MetricResult{
		Info:           schema.MetricInfo{Name: "react_version", Group: schema.VersionsGroup},
		Result:         schema.UnavailableResult,
		HashLastCommit: "abc123",
	}
	require.NoError(t, store.RecordMetricResult(runID, "web", hit, true))
	require.NoError(t, store.RecordMetricResult(runID, "web", miss, false))

	require.NoError(t, store.EndRun(runID, time.Now(), 2))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.WithinDuration(t, start, run.StartTime, time.Millisecond)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.GreaterOrEqual(t, *run.RunDurationMs, int32(2000))
	assert.Equal(t, int32(2), run.TotalRepositories)
	require.NotNil(t, run.ConfigParams)

	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &params))
	assert.Equal(t, float64(4), params["workers"])

	records, err := store.GetAllMetricRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "has_readme", records[0].MetricName)
	assert.Equal(t, "Has", records[0].MetricGroup)
	assert.JSONEq(t, `{"result":"true"}`, records[0].ResultJSON)
	assert.True(t, records[0].Cached)
	assert.Equal(t, "react_version", records[1].MetricName)
	assert.Equal(t, `"-"`, records[1].ResultJSON)
	assert.False(t, records[1].Cached)
	assert.False(t, records[1].RecordedAt.IsZero())
}

func TestRunStore_UnfinishedRun(t *testing.T) {
	store := newSQLiteRunStore(t)

	_, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(0), runs[0].TotalRepositories)
}

func TestRunStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteRunStore(t)
	assert.Error(t, store.EndRun(42, time.Now(), 1))
}

func TestRunStore_DuplicateMetricRejected(t *testing.T) {
	store := newSQLiteRunStore(t)
	runID, err := store.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	result := schema.MetricResult{Info: schema.MetricInfo{Name: "has_readme"}, Result: "x"}
	require.NoError(t, store.RecordMetricResult(runID, "web", result, false))
	assert.Error(t, store.RecordMetricResult(runID, "web", result, false))
}

func TestRunStore_GetStatus(t *testing.T) {
	store := newSQLiteRunStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[runsTable])

	for i := range 3 {
		runID, err := store.BeginRun(time.Now(), nil)
		require.NoError(t, err)
		require.NoError(t, store.EndRun(runID, time.Now(), i+1))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, int64(3), status.LastRunID)
	assert.Equal(t, 6, status.TotalRepositories)
	assert.False(t, status.OldestRunTime.After(status.LastRunTime))
	assert.Equal(t, int64(3), status.TableSizes[runsTable])
	assert.Equal(t, int64(0), status.TableSizes[metricResultsTable])
}

func TestGetCreateRunQueries(t *testing.T) {
	assert.Contains(t, getCreateRunsQuery(schema.SQLiteBackend), "AUTOINCREMENT")
	assert.Contains(t, getCreateRunsQuery(schema.MySQLBackend), "AUTO_INCREMENT")
	assert.Contains(t, getCreateRunsQuery(schema.PostgreSQLBackend), "BIGSERIAL")

	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		assert.Contains(t, getCreateMetricResultsQuery(backend), "PRIMARY KEY (run_id, repository, metric_name)")
	}
}
