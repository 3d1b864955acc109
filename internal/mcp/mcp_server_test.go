package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendboard/trendboard/internal/contract"
	mcp_internal "github.com/trendboard/trendboard/internal/mcp"
	"github.com/trendboard/trendboard/schema"
)

// writeSeriesFile writes a linear daily series to a temp file and returns its path.
func writeSeriesFile(t *testing.T, n int) string {
	t.Helper()

	points := make([]contract.RawPoint, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		v := float64(10 + i)
		points[i] = contract.RawPoint{
			Date:  start.AddDate(0, 0, i).Format(contract.DateFormat),
			Value: &v,
		}
	}
	data, err := json.Marshal(contract.SeriesFile{Name: "signups", Points: points})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "signups.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestMCPServerHandlers(t *testing.T) {
	baseCfg := &contract.Config{Output: schema.TextOut, Precision: 1}
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)
	ctx := context.Background()
	seriesPath := writeSeriesFile(t, 30)

	call := func(name string, args map[string]any) *mcp.CallToolResult {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)
		res, err := tool.Handler(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		})
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		return res
	}

	t.Run("forecast_series returns a forecast", func(t *testing.T) {
		res := call("forecast_series", map[string]any{
			"series_path": seriesPath,
			"horizon":     5.0,
		})
		require.False(t, res.IsError)

		var result schema.ForecastResult
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		assert.Len(t, result.Points, 5)
	})

	t.Run("forecast_series missing file", func(t *testing.T) {
		res := call("forecast_series", map[string]any{
			"series_path": filepath.Join(t.TempDir(), "missing.json"),
		})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "failed to load series")
	})

	t.Run("compute_metric_row with shadows", func(t *testing.T) {
		res := call("compute_metric_row", map[string]any{
			"series_path": seriesPath,
			"selection":   "2024-01-20",
			"shadows":     "7:day",
		})
		require.False(t, res.IsError)

		var row schema.MetricRowValues
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &row))
		require.NotNil(t, row.SelectionValue)
		assert.InDelta(t, 29, *row.SelectionValue, 1e-9)
		require.NotNil(t, row.ShadowValue)
		assert.InDelta(t, 22, *row.ShadowValue, 1e-9)
	})

	t.Run("compute_metric_row invalid selection", func(t *testing.T) {
		res := call("compute_metric_row", map[string]any{
			"series_path": seriesPath,
			"selection":   "not-a-date",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid selection")
	})

	t.Run("average_shadows requires valid specs", func(t *testing.T) {
		res := call("average_shadows", map[string]any{
			"series_path": seriesPath,
			"shadows":     "nope",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid shadows")
	})

	t.Run("average_shadows returns averages for two shadows", func(t *testing.T) {
		res := call("average_shadows", map[string]any{
			"series_path": seriesPath,
			"shadows":     "7:day,14:day",
		})
		require.False(t, res.IsError)

		var payload struct {
			Shadows  []schema.ShadowSeries       `json:"shadows"`
			Averages []schema.ShadowAveragePoint `json:"averages"`
		}
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &payload))
		assert.Len(t, payload.Shadows, 2)
		assert.NotEmpty(t, payload.Averages)
	})

	t.Run("detect_anomalies rejects bad sensitivity", func(t *testing.T) {
		res := call("detect_anomalies", map[string]any{
			"series_path": seriesPath,
			"sensitivity": "extreme",
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid sensitivity")
	})

	t.Run("detect_anomalies reports totals", func(t *testing.T) {
		res := call("detect_anomalies", map[string]any{
			"series_path": seriesPath,
		})
		require.False(t, res.IsError)

		var result schema.AnomalyResult
		text := res.Content[0].(mcp.TextContent).Text
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		assert.Equal(t, 30, result.TotalPoints)
		assert.Equal(t, schema.SensitivityMedium, result.Sensitivity)
	})
}
