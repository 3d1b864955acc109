package core

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/internal/outwriter"
	"github.com/trendboard/trendboard/schema"
)

// ExecutorFunc defines the function signature for executing different engine modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteForecast runs a forecast for a series file and prints the result.
// It serves as the main entry point for the 'forecast' mode. When a remote
// service is configured it is tried first; any remote failure falls back to
// the local forecaster silently.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, remote contract.ForecastService) error {
	start := time.Now()
	name, series, err := loadNamedSeries(cfg)
	if err != nil {
		return err
	}

	result, err := forecastWithFallback(ctx, series, cfg.Forecast, remote, mgr)
	if err != nil {
		return err
	}
	if result == nil {
		return errors.New("no forecast available for this series")
	}

	recordRun(mgr, name, result, cfg.Forecast, len(series), start)
	duration := time.Since(start)
	return outwriter.PrintForecastResults(result, name, cfg, duration)
}

// ExecuteMetricRow computes the row readout for a series at the configured
// selection date and prints it. It serves as the main entry point for the
// 'row' mode.
func ExecuteMetricRow(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	name, series, err := loadNamedSeries(cfg)
	if err != nil {
		return err
	}

	row := ComputeMetricRow(MetricRowInput{
		Series:      series,
		Selection:   cfg.Selection,
		FocusStart:  cfg.FocusStart,
		FocusEnd:    cfg.FocusEnd,
		Aggregation: cfg.Aggregation,
		Shadows:     cfg.Shadows,
		Goal:        cfg.Goal,
		Forecast:    cfg.Forecast,
		Comparisons: cfg.Comparisons,
	})
	duration := time.Since(start)
	return outwriter.PrintMetricRowResults(row, name, cfg, duration)
}

// ExecuteShadows generates the configured shadows (and their across-shadow
// average when two or more are enabled) and prints them aligned to the
// live series. It serves as the main entry point for the 'shadow' mode.
func ExecuteShadows(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	name, series, err := loadNamedSeries(cfg)
	if err != nil {
		return err
	}
	if len(cfg.Shadows) == 0 {
		return errors.New("at least one shadow spec is required")
	}

	shadows := make([]schema.ShadowSeries, 0, len(cfg.Shadows))
	enabled := 0
	for _, shadowCfg := range cfg.Shadows {
		if !shadowCfg.Enabled {
			continue
		}
		enabled++
		shadows = append(shadows, schema.ShadowSeries{
			Label:  shadowCfg.Label,
			Points: GenerateShadow(series, shadowCfg),
		})
	}

	var averages []schema.ShadowAveragePoint
	if enabled >= 2 {
		averages = AverageShadows(series, cfg.Shadows)
	}

	duration := time.Since(start)
	return outwriter.PrintShadowResults(series, shadows, averages, name, cfg, duration)
}

// ExecuteGoal projects the configured goal line over a series and prints
// it. It serves as the main entry point for the 'goal' mode.
func ExecuteGoal(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	name, series, err := loadNamedSeries(cfg)
	if err != nil {
		return err
	}
	if !cfg.Goal.Enabled {
		return errors.New("a goal type is required")
	}

	projection := ProjectGoal(series, cfg.Goal)
	duration := time.Since(start)
	return outwriter.PrintGoalResults(projection, name, cfg, duration)
}

// ExecuteAnomalies runs anomaly detection over a series and prints the
// flagged points. It serves as the main entry point for the 'anomaly' mode.
func ExecuteAnomalies(_ context.Context, cfg *contract.Config) error {
	start := time.Now()
	name, series, err := loadNamedSeries(cfg)
	if err != nil {
		return err
	}

	result := DetectAnomalies(series, cfg.Sensitivity, cfg.SeasonLength, cfg.ShowBands)
	duration := time.Since(start)
	return outwriter.PrintAnomalyResults(result, name, cfg, duration)
}

// forecastWithFallback tries the remote service first when available and
// falls back to the local cached forecaster on any failure or empty
// result. Remote failures are never surfaced to the caller.
func forecastWithFallback(ctx context.Context, series schema.PointSequence, fcfg schema.ForecastConfig, remote contract.ForecastService, mgr contract.CacheManager) (*schema.ForecastResult, error) {
	if remote != nil {
		if result, err := remote.Forecast(ctx, series, fcfg); err == nil && result != nil {
			return result, nil
		}
	}
	return cachedForecast(series, fcfg, mgr)
}

// recordRun writes a run-history record for a completed forecast. History
// is best effort; a missing or failing store never blocks the result.
func recordRun(mgr contract.CacheManager, name string, result *schema.ForecastResult, fcfg schema.ForecastConfig, pointCount int, start time.Time) {
	if mgr == nil {
		return
	}
	runs := mgr.GetRunStore()
	if runs == nil {
		return
	}

	params := map[string]any{
		"seasonal":         string(result.Parameters.Seasonal),
		"season_length":    result.Parameters.SeasonLength,
		"confidence_level": fcfg.ConfidenceLevel,
		"alpha":            result.Parameters.Alpha,
		"beta":             result.Parameters.Beta,
		"gamma":            result.Parameters.Gamma,
		"phi":              result.Parameters.Phi,
	}
	runID, err := runs.BeginRun(name, result.Method, fcfg.Horizon, pointCount, start, params)
	if err != nil {
		return
	}
	_ = runs.EndRun(runID, time.Now())
}

// loadNamedSeries loads the configured series file and resolves a display
// name: explicit config name, then the file's own name, then its basename.
func loadNamedSeries(cfg *contract.Config) (string, schema.PointSequence, error) {
	name, series, err := contract.LoadSeries(cfg.SeriesPath)
	if err != nil {
		return "", nil, err
	}
	if cfg.SeriesName != "" {
		name = cfg.SeriesName
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cfg.SeriesPath), filepath.Ext(cfg.SeriesPath))
	}
	return name, series, nil
}
