// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/trendboard/trendboard/internal/contract"
)

// NewMCPServer initializes and configures the Trendboard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Trendboard Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: forecast_series ---
	s.AddTool(mcp.NewTool("forecast_series",
		mcp.WithDescription("Forecast future values of a rate-metric series using exponential smoothing."),
		mcp.WithString("series_path", mcp.Description("Path to the series JSON file."), mcp.Required()),
		mcp.WithNumber("horizon", mcp.Description("Number of future steps to forecast. Defaults to 30.")),
		mcp.WithString("seasonal", mcp.Description("Seasonal mode (none, additive, multiplicative). Defaults to 'none'."), mcp.Enum("none", "additive", "multiplicative")),
		mcp.WithNumber("season_length", mcp.Description("Season length in points (0 = auto-detect).")),
		mcp.WithNumber("confidence_level", mcp.Description("Confidence level percent (90, 95, 99). Defaults to 95.")),
	), h.handleForecastSeries)

	// --- 2. Tool: compute_metric_row ---
	s.AddTool(mcp.NewTool("compute_metric_row",
		mcp.WithDescription("Compute the dashboard row readout for a series at a selection date."),
		mcp.WithString("series_path", mcp.Description("Path to the series JSON file."), mcp.Required()),
		mcp.WithString("selection", mcp.Description("Selection date (YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("focus_start", mcp.Description("Focus window start date (YYYY-MM-DD).")),
		mcp.WithString("focus_end", mcp.Description("Focus window end date (YYYY-MM-DD).")),
		mcp.WithString("shadows", mcp.Description("Comma list of shadow specs, e.g. '1:year,1:month'.")),
		mcp.WithString("comparisons", mcp.Description("Comma list of comparison specs, e.g. 'vs-ly=shadow0:selection'.")),
	), h.handleComputeMetricRow)

	// --- 3. Tool: average_shadows ---
	s.AddTool(mcp.NewTool("average_shadows",
		mcp.WithDescription("Generate historical shadow baselines for a series and average them."),
		mcp.WithString("series_path", mcp.Description("Path to the series JSON file."), mcp.Required()),
		mcp.WithString("shadows", mcp.Description("Comma list of shadow specs, e.g. '1:year,2:year'."), mcp.Required()),
	), h.handleAverageShadows)

	// --- 4. Tool: detect_anomalies ---
	s.AddTool(mcp.NewTool("detect_anomalies",
		mcp.WithDescription("Detect anomalous points in a series against a rolling expected range."),
		mcp.WithString("series_path", mcp.Description("Path to the series JSON file."), mcp.Required()),
		mcp.WithString("sensitivity", mcp.Description("Detection sensitivity (low, medium, high). Defaults to 'medium'."), mcp.Enum("low", "medium", "high")),
		mcp.WithNumber("season_length", mcp.Description("Season length in points used to size the rolling window.")),
	), h.handleDetectAnomalies)

	return s
}

// StartMCPServer starts the Trendboard MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
