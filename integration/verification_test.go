//go:build basic

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricByName(t *testing.T, report schema.Report, name string) schema.MetricResult {
	t.Helper()
	for _, m := range report.Metrics {
		if m.Info.Name == name {
			return m
		}
	}
	t.Fatalf("metric %s missing from report of %s", name, report.Repository)
	return schema.MetricResult{}
}

// TestRunVerification evaluates a fixture repository and checks results against its files and HEAD.
func TestRunVerification(t *testing.T) {
	web, head := fixtureRepo(t, map[string]string{
		"package.json": webManifest,
		"README.md":    "# web",
		".eslintrc":    "{}",
	})
	config := writeConfig(t, map[string]string{"web": web})
	out := filepath.Join(t.TempDir(), "report.json")
	db := filepath.Join(t.TempDir(), "reports.db")

	_, err := runCommand(t, nil, "run", "--config", config,
		"--report-db-connect", db, "--output", "json", "--output-file", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var reports []schema.Report
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 1)
	report := reports[0]
	assert.Equal(t, "web", report.Repository)

	lint := metricByName(t, report, "has_lint_config")
	assert.Equal(t, map[string]any{"result": "true"}, lint.Result)
	assert.Equal(t, head, lint.HashLastCommit)

	lockfile := metricByName(t, report, "has_lockfile")
	assert.Equal(t, map[string]any{"result": "false"}, lockfile.Result)

	react := metricByName(t, report, "react_version")
	assert.NotEqual(t, schema.UnavailableResult, react.Result)

	// The stored report answers lookups without evaluating again.
	stdout, err := runCommand(t, nil, "report", "get", "web", "has_readme", "--config", config,
		"--report-db-connect", db, "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, head)
}

// TestRunReusesPriorReport feeds a JSON report back in and expects identical results.
func TestRunReusesPriorReport(t *testing.T) {
	web, _ := fixtureRepo(t, map[string]string{"package.json": webManifest})
	config := writeConfig(t, map[string]string{"web": web})
	first := filepath.Join(t.TempDir(), "first.json")
	second := filepath.Join(t.TempDir(), "second.json")

	_, err := runCommand(t, nil, "run", "--config", config, "--report-backend", "none",
		"--output", "json", "--output-file", first)
	require.NoError(t, err)
	_, err = runCommand(t, nil, "run", "--config", config, "--report-backend", "none",
		"--prior-report", first, "--output", "json", "--output-file", second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

// TestRunStrict lists a repository without a manifest and expects a failing exit with --strict.
func TestRunStrict(t *testing.T) {
	web, _ := fixtureRepo(t, map[string]string{"package.json": webManifest})
	api, _ := fixtureRepo(t, map[string]string{"README.md": "# api"})
	config := writeConfig(t, map[string]string{"web": web, "api": api})

	stdout, err := runCommand(t, nil, "run", "--config", config, "--report-backend", "none", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "api,,,,,,")

	_, err = runCommand(t, nil, "run", "--config", config, "--report-backend", "none", "--strict")
	assert.Error(t, err)
}

// TestRunHistory tracks a run in SQLite and exports it to Parquet.
func TestRunHistory(t *testing.T) {
	web, _ := fixtureRepo(t, map[string]string{"package.json": webManifest})
	config := writeConfig(t, map[string]string{"web": web})
	runsDB := filepath.Join(t.TempDir(), "runs.db")
	export := filepath.Join(t.TempDir(), "history")

	_, err := runCommand(t, nil, "run", "--config", config, "--report-backend", "none",
		"--run-backend", "sqlite", "--run-db-connect", runsDB)
	require.NoError(t, err)

	stdout, err := runCommand(t, nil, "history", "status", "--run-backend", "sqlite", "--run-db-connect", runsDB)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total Runs: 1")

	_, err = runCommand(t, nil, "history", "export", "--run-backend", "sqlite", "--run-db-connect", runsDB,
		"--output-file", export)
	require.NoError(t, err)
	assert.FileExists(t, export+".runs.parquet")
	assert.FileExists(t, export+".metric_results.parquet")
}

// TestHistoryMigrate migrates a fresh database up and back down.
func TestHistoryMigrate(t *testing.T) {
	db := filepath.Join(t.TempDir(), "migrate.db")

	stdout, err := runCommand(t, nil, "history", "migrate", "--run-backend", "sqlite", "--run-db-connect", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Successfully migrated")

	stdout, err = runCommand(t, nil, "history", "migrate", "--run-backend", "sqlite", "--run-db-connect", db,
		"--target-version", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Successfully migrated")
}

// TestMetricsListing lists a subset of metrics as JSON.
func TestMetricsListing(t *testing.T) {
	stdout, err := runCommand(t, nil, "metrics", "--report-backend", "none",
		"--metrics", "has_readme,react_version", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "has_readme")
	assert.Contains(t, stdout, "react_version")
	assert.NotContains(t, stdout, "has_lockfile")
}

// TestTimeseries evaluates two commits and expects the older one to predate the README.
func TestTimeseries(t *testing.T) {
	web, first := fixtureRepo(t, map[string]string{"package.json": webManifest})
	second := commitFiles(t, web, map[string]string{"README.md": "# web"}, "add readme")
	config := writeConfig(t, map[string]string{"web": web})
	out := filepath.Join(t.TempDir(), "timeseries.json")

	_, err := runCommand(t, nil, "timeseries", "web", "--config", config, "--report-backend", "none",
		"--commits", "5", "--metrics", "has_readme", "--output", "json", "--output-file", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var series schema.TimeseriesOutput
	require.NoError(t, json.Unmarshal(data, &series))
	assert.Equal(t, "web", series.Repository)
	require.Len(t, series.Points, 2)

	newest, oldest := series.Points[0], series.Points[1]
	assert.Equal(t, second, newest.Commit.Hash)
	assert.Equal(t, first, oldest.Commit.Hash)
	assert.False(t, newest.Commit.Date.IsZero())
	require.NotNil(t, newest.Report)
	require.NotNil(t, oldest.Report)
	assert.Equal(t, map[string]any{"result": "true"}, metricByName(t, *newest.Report, "has_readme").Result)
	assert.Equal(t, map[string]any{"result": "false"}, metricByName(t, *oldest.Report, "has_readme").Result)

	// The working copy stays on its commit with no worktrees left behind.
	assert.Equal(t, second, gitIn(t, web)("rev-parse", "HEAD"))
	assert.FileExists(t, filepath.Join(web, "README.md"))
	assert.NotContains(t, gitIn(t, web)("worktree", "list"), "repometrics-timeseries")
}
