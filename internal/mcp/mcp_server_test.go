package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/iocache"
	mcp_internal "github.com/huangsam/repometrics/internal/mcp"
	"github.com/huangsam/repometrics/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, baseCfg *contract.Config, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseCfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func storeWithReport() *iocache.MockStoreManager {
	store := &iocache.MockReportStore{}
	store.On("List").Return([]schema.Report{{
		Repository:       "web",
		InstalledGitHash: "abc123",
		Metrics: []schema.MetricResult{{
			Info:           schema.MetricInfo{Name: "has_readme", Group: schema.HasGroup},
			Result:         map[string]any{"result": "true"},
			HashLastCommit: "abc123",
		}},
	}}, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetReportStore").Return(store)
	return mgr
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{}

	t.Run("get_metric_result missing metric", func(t *testing.T) {
		res := call(t, baseCfg, nil, "get_metric_result", map[string]any{"label": "web"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text(res), "label and metric are required")
	})

	t.Run("get_report missing label", func(t *testing.T) {
		res := call(t, baseCfg, nil, "get_report", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "label is required")
	})

	t.Run("evaluate_repository unknown label", func(t *testing.T) {
		res := call(t, baseCfg, nil, "evaluate_repository", map[string]any{"label": "ghost"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "unknown repository")
	})

	t.Run("list_metrics unknown metric", func(t *testing.T) {
		res := call(t, &contract.Config{Metrics: []string{"nope"}}, nil, "list_metrics", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "unknown metric")
	})
}

func TestMCPServerHandlers_ListMetrics(t *testing.T) {
	res := call(t, &contract.Config{Metrics: []string{"has_readme", "react_version"}}, nil, "list_metrics", nil)
	require.False(t, res.IsError, text(res))

	var groups []struct {
		Group   string              `json:"group"`
		Metrics []schema.MetricInfo `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "has_readme", groups[0].Metrics[0].Name)
	assert.Equal(t, "react_version", groups[1].Metrics[0].Name)
}

func TestMCPServerHandlers_GetMetricResult(t *testing.T) {
	mgr := storeWithReport()

	res := call(t, &contract.Config{}, mgr, "get_metric_result", map[string]any{"label": "web", "metric": "has_readme"})
	require.False(t, res.IsError, text(res))

	var result schema.MetricResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
	assert.Equal(t, "abc123", result.HashLastCommit)
	assert.Equal(t, map[string]any{"result": "true"}, result.Result)

	res = call(t, &contract.Config{}, mgr, "get_metric_result", map[string]any{"label": "web", "metric": "react_version"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "report not found")
}

func TestMCPServerHandlers_GetReport(t *testing.T) {
	res := call(t, &contract.Config{}, storeWithReport(), "get_report", map[string]any{"label": "web"})
	require.False(t, res.IsError, text(res))

	var report schema.Report
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	assert.Equal(t, "web", report.Repository)
	assert.Len(t, report.Metrics, 1)
}

func TestMCPServerHandlers_GetReportFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prior.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"repository":"api","installedGitHash":"h","metrics":[]}]`), 0o644))

	res := call(t, &contract.Config{PriorReport: path}, nil, "get_report", map[string]any{"label": "api"})
	require.False(t, res.IsError, text(res))
	assert.Contains(t, text(res), `"installedGitHash": "h"`)
}
