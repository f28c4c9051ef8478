package core

import (
	"testing"

	"github.com/huangsam/repometrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(name, value, hash string) schema.MetricResult {
	return schema.MetricResult{Info: schema.MetricInfo{Name: name}, Result: value, HashLastCommit: hash}
}

func TestLookupResult_LastMatchWins(t *testing.T) {
	reports := []schema.Report{
		{Repository: "R1", Metrics: []schema.MetricResult{result("m", "old", "h1")}},
		{Repository: "R2", Metrics: []schema.MetricResult{result("m", "other", "h9")}},
		{Repository: "R1", Metrics: []schema.MetricResult{result("m", "new", "h2")}},
	}

	got, ok := LookupResult(reports, "R1", "m")
	require.True(t, ok)
	assert.Equal(t, "new", got.Result)

	_, ok = LookupResult(reports, "R1", "missing")
	assert.False(t, ok)
	_, ok = LookupResult(nil, "R1", "m")
	assert.False(t, ok)
}

func TestPriorReports_CopyOnLoad(t *testing.T) {
	reports := []schema.Report{{Repository: "R1", Metrics: []schema.MetricResult{result("m", "v1", "h1")}}}
	p := NewPriorReports(reports)

	reports[0].Metrics[0].Result = "mutated"
	got, ok := p.PriorResult("R1", "m")
	require.True(t, ok)
	assert.Equal(t, "v1", got.Result)

	held := p.Reports()
	held[0].Metrics[0].Result = "mutated"
	got, _ = p.PriorResult("R1", "m")
	assert.Equal(t, "v1", got.Result)
}

func TestPriorReports_Load(t *testing.T) {
	p := NewPriorReports(nil)
	_, ok := p.PriorResult("R1", "m")
	assert.False(t, ok)

	p.Load([]schema.Report{{Repository: "R1", InstalledGitHash: "abc", Metrics: []schema.MetricResult{result("m", "v", "h")}}})
	report, ok := p.Repository("R1")
	require.True(t, ok)
	assert.Equal(t, "abc", report.InstalledGitHash)

	_, ok = p.Repository("R2")
	assert.False(t, ok)
}
