package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

// writeSeriesJSON writes a linear daily series file and returns its path.
func writeSeriesJSON(t *testing.T, name string, n int) string {
	t.Helper()

	points := make([]contract.RawPoint, n)
	for i := range points {
		v := float64(100 + i)
		points[i] = contract.RawPoint{
			Date:  date(2024, 1, 1).AddDate(0, 0, i).Format(contract.DateFormat),
			Value: &v,
		}
	}
	data, err := json.Marshal(contract.SeriesFile{Name: name, Points: points})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// jsonOutConfig builds a config that writes JSON output into a temp file
// so the test can inspect what was printed.
func jsonOutConfig(t *testing.T, seriesPath string) (*contract.Config, string) {
	t.Helper()
	outPath := filepath.Join(t.TempDir(), "out.json")
	return &contract.Config{
		SeriesPath: seriesPath,
		Output:     schema.JSONOut,
		OutputFile: outPath,
		Precision:  1,
	}, outPath
}

// stubForecastService fakes a remote forecaster for fallback tests.
type stubForecastService struct {
	result *schema.ForecastResult
	err    error
	calls  int
}

func (s *stubForecastService) Forecast(_ context.Context, _ schema.PointSequence, _ schema.ForecastConfig) (*schema.ForecastResult, error) {
	s.calls++
	return s.result, s.err
}

func TestExecuteForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("writes forecast json", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		cfg.Forecast = autoCfg(5, schema.SeasonalNone)

		require.NoError(t, ExecuteForecast(ctx, cfg, nil, nil))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var payload struct {
			Series string              `json:"series"`
			Points []schema.ValuePoint `json:"points"`
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, "signups", payload.Series)
		assert.Len(t, payload.Points, 5)
	})

	t.Run("missing series file", func(t *testing.T) {
		cfg, _ := jsonOutConfig(t, filepath.Join(t.TempDir(), "missing.json"))
		cfg.Forecast = autoCfg(5, schema.SeasonalNone)
		assert.Error(t, ExecuteForecast(ctx, cfg, nil, nil))
	})

	t.Run("remote result is preferred", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		cfg.Forecast = autoCfg(3, schema.SeasonalNone)

		remote := &stubForecastService{
			result: &schema.ForecastResult{
				Points: []schema.ValuePoint{
					{Timestamp: date(2024, 2, 1), Value: 1},
					{Timestamp: date(2024, 2, 2), Value: 2},
					{Timestamp: date(2024, 2, 3), Value: 3},
				},
				Method: schema.MethodRemote,
			},
		}
		require.NoError(t, ExecuteForecast(ctx, cfg, nil, remote))
		assert.Equal(t, 1, remote.calls)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), string(schema.MethodRemote))
	})

	t.Run("remote failure falls back to local", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		cfg.Forecast = autoCfg(3, schema.SeasonalNone)

		remote := &stubForecastService{err: errors.New("service unavailable")}
		require.NoError(t, ExecuteForecast(ctx, cfg, nil, remote))
		assert.Equal(t, 1, remote.calls)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		var payload struct {
			Points []schema.ValuePoint `json:"points"`
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Len(t, payload.Points, 3)
	})

	t.Run("explicit name overrides file name", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		cfg.SeriesName = "renamed"
		cfg.Forecast = autoCfg(2, schema.SeasonalNone)

		require.NoError(t, ExecuteForecast(ctx, cfg, nil, nil))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"series": "renamed"`)
	})
}

func TestExecuteMetricRow(t *testing.T) {
	ctx := context.Background()

	t.Run("writes row json with selection value", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		selection := date(2024, 1, 15)
		cfg.Selection = &selection

		require.NoError(t, ExecuteMetricRow(ctx, cfg))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var payload struct {
			Series string `json:"series"`
			schema.MetricRowValues
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, "signups", payload.Series)
		require.NotNil(t, payload.SelectionValue)
		// Day 15 of a 100+i series.
		assert.InDelta(t, 114, *payload.SelectionValue, 1e-9)
	})
}

func TestExecuteShadows(t *testing.T) {
	ctx := context.Background()

	t.Run("requires at least one shadow", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, _ := jsonOutConfig(t, seriesPath)
		err := ExecuteShadows(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shadow spec is required")
	})

	t.Run("writes shadows json", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		shadows, err := contract.ParseShadowSpecs("7:day,14:day")
		require.NoError(t, err)
		cfg.Shadows = shadows

		require.NoError(t, ExecuteShadows(ctx, cfg))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var payload struct {
			Shadows  []schema.ShadowSeries       `json:"shadows"`
			Averages []schema.ShadowAveragePoint `json:"averages"`
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Len(t, payload.Shadows, 2)
		assert.NotEmpty(t, payload.Averages)
	})
}

func TestExecuteGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an enabled goal", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 10)
		cfg, _ := jsonOutConfig(t, seriesPath)
		err := ExecuteGoal(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "goal type is required")
	})

	t.Run("writes goal json", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 10)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		target := 150.0
		cfg.Goal = schema.GoalConfig{
			ID:            "goal",
			Enabled:       true,
			Type:          schema.GoalContinuous,
			TargetValue:   &target,
			Interpolation: schema.InterpLinear,
		}

		require.NoError(t, ExecuteGoal(ctx, cfg))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var payload struct {
			Series string `json:"series"`
			schema.GoalProjection
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, "signups", payload.Series)
		require.NotEmpty(t, payload.Points)
		assert.InDelta(t, 150, payload.Points[0].Value, 1e-9)
	})
}

func TestExecuteAnomalies(t *testing.T) {
	ctx := context.Background()

	t.Run("writes anomaly json", func(t *testing.T) {
		seriesPath := writeSeriesJSON(t, "signups", 30)
		cfg, outPath := jsonOutConfig(t, seriesPath)
		cfg.Sensitivity = schema.SensitivityMedium

		require.NoError(t, ExecuteAnomalies(ctx, cfg))

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)

		var payload struct {
			Series string `json:"series"`
			schema.AnomalyResult
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, "signups", payload.Series)
		assert.Equal(t, 30, payload.TotalPoints)
	})
}

func TestLoadNamedSeries(t *testing.T) {
	t.Run("falls back to file basename", func(t *testing.T) {
		points := []contract.RawPoint{}
		v := 1.0
		points = append(points, contract.RawPoint{Date: "2024-01-01", Value: &v})
		data, err := json.Marshal(contract.SeriesFile{Points: points})
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "weekly-actives.json")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		name, series, err := loadNamedSeries(&contract.Config{SeriesPath: path})
		require.NoError(t, err)
		assert.Equal(t, "weekly-actives", name)
		assert.Len(t, series, 1)
	})
}
