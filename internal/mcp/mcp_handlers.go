package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/trendboard/trendboard/core"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleForecastSeries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, series, err := contract.LoadSeries(request.GetString("series_path", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}

	horizon := request.GetInt("horizon", contract.DefaultHorizon)
	seasonal := schema.SeasonalMode(request.GetString("seasonal", string(schema.SeasonalNone)))
	level := request.GetInt("confidence_level", contract.DefaultConfidenceLevel)

	fcfg, err := schema.NewForecastConfig(horizon, seasonal, level)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}
	fcfg.SeasonLength = request.GetInt("season_length", 0)

	result, err := core.CachedForecast(series, fcfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}
	if result == nil {
		return mcp.NewToolResultError("no forecast available for this series"), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleComputeMetricRow(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, series, err := contract.LoadSeries(request.GetString("series_path", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}

	selection, err := contract.ParseDate(request.GetString("selection", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	cfg := h.baseCfg.Clone()
	input := core.MetricRowInput{
		Series:      series,
		Selection:   &selection,
		Aggregation: cfg.Aggregation,
		Shadows:     cfg.Shadows,
		Goal:        cfg.Goal,
		Forecast:    cfg.Forecast,
		Comparisons: cfg.Comparisons,
	}

	if s := request.GetString("focus_start", ""); s != "" {
		t, err := contract.ParseDate(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid focus_start: %v", err)), nil
		}
		input.FocusStart = &t
	}
	if s := request.GetString("focus_end", ""); s != "" {
		t, err := contract.ParseDate(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid focus_end: %v", err)), nil
		}
		input.FocusEnd = &t
	}
	if s := request.GetString("shadows", ""); s != "" {
		shadows, err := contract.ParseShadowSpecs(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid shadows: %v", err)), nil
		}
		input.Shadows = shadows
	}
	if s := request.GetString("comparisons", ""); s != "" {
		comparisons, err := contract.ParseComparisonSpecs(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid comparisons: %v", err)), nil
		}
		input.Comparisons = comparisons
	}

	row := core.ComputeMetricRow(input)
	jsonData, _ := json.MarshalIndent(row, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAverageShadows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, series, err := contract.LoadSeries(request.GetString("series_path", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}

	shadowCfgs, err := contract.ParseShadowSpecs(request.GetString("shadows", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid shadows: %v", err)), nil
	}

	shadows := make([]schema.ShadowSeries, 0, len(shadowCfgs))
	for _, shadowCfg := range shadowCfgs {
		shadows = append(shadows, schema.ShadowSeries{
			Label:  shadowCfg.Label,
			Points: core.GenerateShadow(series, shadowCfg),
		})
	}

	payload := struct {
		Shadows  []schema.ShadowSeries       `json:"shadows"`
		Averages []schema.ShadowAveragePoint `json:"averages,omitempty"`
	}{Shadows: shadows}
	if len(shadowCfgs) >= 2 {
		payload.Averages = core.AverageShadows(series, shadowCfgs)
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDetectAnomalies(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, series, err := contract.LoadSeries(request.GetString("series_path", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}

	sensitivity := schema.Sensitivity(request.GetString("sensitivity", string(schema.SensitivityMedium)))
	switch sensitivity {
	case schema.SensitivityLow, schema.SensitivityMedium, schema.SensitivityHigh:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid sensitivity %q. must be low, medium, high", sensitivity)), nil
	}

	result := core.DetectAnomalies(series, sensitivity, request.GetInt("season_length", 0), false)
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
