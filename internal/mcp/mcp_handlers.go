package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/repometrics/core"
	"github.com/huangsam/repometrics/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// metricGroupView is one presentation group of the metric listing.
type metricGroupView struct {
	Group   string `json:"group"`
	Metrics []any  `json:"metrics"`
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	registry, err := core.MetricRegistry(h.baseCfg.Clone())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}

	view := registry.GroupedView()
	groups := make([]metricGroupView, 0, len(view))
	for _, group := range registry.Groups() {
		gv := metricGroupView{Group: string(group)}
		for _, info := range view[group] {
			gv.Metrics = append(gv.Metrics, info)
		}
		groups = append(groups, gv)
	}
	return jsonResult(groups)
}

func (h *toolHandler) handleGetMetricResult(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := request.GetString("label", "")
	metric := request.GetString("metric", "")
	if label == "" || metric == "" {
		return mcp.NewToolResultError("label and metric are required"), nil
	}

	result, err := core.GetMetricResult(h.baseCfg.Clone(), h.mgr, label, metric)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := request.GetString("label", "")
	if label == "" {
		return mcp.NewToolResultError("label is required"), nil
	}

	cfg := h.baseCfg.Clone()
	var store contract.ReportStore
	if h.mgr != nil {
		store = h.mgr.GetReportStore()
	}
	reports, err := core.LoadPriorReports(cfg, store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	report, ok := core.NewPriorReports(reports).Repository(label)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v: %s", contract.ErrReportNotFound, label)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleEvaluateRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := request.GetString("label", "")
	if label == "" {
		return mcp.NewToolResultError("label is required"), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.PartialResults = request.GetBool("partial_results", cfg.PartialResults)

	report, err := core.EvaluateRepository(ctx, cfg, h.mgr, label)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	return jsonResult(report)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
