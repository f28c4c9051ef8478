package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repometrics/core/metrics"
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/iocache"
	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetricResult(t *testing.T) {
	cfg := &contract.Config{PriorReport: writePrior(t, priorJSON)}

	result, err := GetMetricResult(cfg, nil, "R1", metrics.HasLintConfigName)
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.HashLastCommit)

	_, err = GetMetricResult(cfg, nil, "R1", "unknown")
	assert.ErrorIs(t, err, contract.ErrReportNotFound)
	_, err = GetMetricResult(cfg, nil, "R9", metrics.HasLintConfigName)
	assert.ErrorIs(t, err, contract.ErrReportNotFound)
}

func TestGetMetricResult_FromStoreManager(t *testing.T) {
	store := &iocache.MockReportStore{}
	store.On("List").Return([]schema.Report{{
		Repository: "web",
		Metrics:    []schema.MetricResult{{Info: schema.MetricInfo{Name: "m"}, Result: "1.0.0", HashLastCommit: "h"}},
	}}, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetReportStore").Return(store)

	result, err := GetMetricResult(&contract.Config{}, mgr, "web", "m")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result.Result)
	mgr.AssertExpectations(t)
}

func TestMetricRegistry(t *testing.T) {
	registry, err := MetricRegistry(&contract.Config{Metrics: []string{metrics.HasReadmeName, metrics.ReactVersionName}})
	require.NoError(t, err)
	assert.Equal(t, []string{metrics.HasReadmeName, metrics.ReactVersionName}, registry.Names())

	_, err = MetricRegistry(&contract.Config{Metrics: []string{"no_such_metric"}})
	assert.Error(t, err)
}

func TestNewRunner(t *testing.T) {
	runs := &iocache.MockRunStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetReportStore").Return(nil)
	mgr.On("GetRunStore").Return(runs)

	cfg := &contract.Config{PartialResults: true, MetricWorkers: 2, PriorReport: writePrior(t, priorJSON)}
	runner, err := NewRunner(cfg, mgr, &contract.MockGitClient{}, &contract.MockInstaller{})
	require.NoError(t, err)

	assert.True(t, runner.Engine.PartialResults)
	assert.Equal(t, 2, runner.Engine.MetricWorkers)
	assert.Equal(t, runs, runner.Runs)
	assert.Nil(t, runner.Reports)
	assert.Len(t, runner.Types, len(metrics.Catalog(metrics.Options{})))

	_, ok := runner.Engine.Priors.PriorResult("R1", metrics.HasLintConfigName)
	assert.True(t, ok)
}

func TestNewRunner_NilManager(t *testing.T) {
	runner, err := NewRunner(&contract.Config{}, nil, &contract.MockGitClient{}, &contract.MockInstaller{})
	require.NoError(t, err)
	assert.Nil(t, runner.Reports)
	assert.Nil(t, runner.Runs)
}

func TestEvaluateRepository_UnknownLabel(t *testing.T) {
	_, err := EvaluateRepository(context.Background(), &contract.Config{}, nil, "ghost")
	assert.ErrorIs(t, err, contract.ErrUnknownRepository)
}

func TestExecuteReportLookup(t *testing.T) {
	out := filepath.Join(t.TempDir(), "lookup.json")
	cfg := &contract.Config{PriorReport: writePrior(t, priorJSON), Output: schema.JSONOut, OutputFile: out}

	require.NoError(t, ExecuteReportLookup(context.Background(), cfg, nil, "R1", metrics.HasLintConfigName))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc123")
}

func TestExecuteReportShow(t *testing.T) {
	out := filepath.Join(t.TempDir(), "show.json")
	cfg := &contract.Config{PriorReport: writePrior(t, priorJSON), Output: schema.JSONOut, OutputFile: out}

	require.NoError(t, ExecuteReportShow(context.Background(), cfg, nil, "R1"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var reports []schema.Report
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "R1", reports[0].Repository)

	err = ExecuteReportShow(context.Background(), cfg, nil, "R9")
	assert.ErrorIs(t, err, contract.ErrReportNotFound)
}

func TestExecuteMetricsListing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "metrics.json")
	cfg := &contract.Config{Metrics: []string{metrics.HasReadmeName}, Output: schema.JSONOut, OutputFile: out}

	require.NoError(t, ExecuteMetricsListing(context.Background(), cfg, nil))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), metrics.HasReadmeName)
}
