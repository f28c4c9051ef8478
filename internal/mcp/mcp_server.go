// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Repometrics MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Repometrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the configured metrics grouped for presentation, with their result schemas."),
	), h.handleListMetrics)

	// --- 2. Tool: get_metric_result ---
	s.AddTool(mcp.NewTool("get_metric_result",
		mcp.WithDescription("Look up the last recorded result of one metric for one repository."),
		mcp.WithString("label", mcp.Description("Label of the repository as configured."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Name of the metric (e.g. 'has_lint_config')."), mcp.Required()),
	), h.handleGetMetricResult)

	// --- 3. Tool: get_report ---
	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Return the last recorded report of a repository."),
		mcp.WithString("label", mcp.Description("Label of the repository as configured."), mcp.Required()),
	), h.handleGetReport)

	// --- 4. Tool: evaluate_repository ---
	s.AddTool(mcp.NewTool("evaluate_repository",
		mcp.WithDescription("Evaluate every configured metric against one repository and return its report."),
		mcp.WithString("label", mcp.Description("Label of the repository as configured."), mcp.Required()),
		mcp.WithBoolean("partial_results", mcp.Description("Keep the other results when one metric fails.")),
	), h.handleEvaluateRepository)

	return s
}

// StartMCPServer starts the Repometrics MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
