// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteForecast prints forecast results using the configured output format.
func (ow *OutWriter) WriteForecast(result *schema.ForecastResult, name string, cfg *contract.Config, duration time.Duration) error {
	return PrintForecastResults(result, name, cfg, duration)
}

// WriteMetricRow prints a metric row readout using the configured output format.
func (ow *OutWriter) WriteMetricRow(row schema.MetricRowValues, name string, cfg *contract.Config, duration time.Duration) error {
	return PrintMetricRowResults(row, name, cfg, duration)
}

// WriteShadows prints shadow results using the configured output format.
func (ow *OutWriter) WriteShadows(series schema.PointSequence, shadows []schema.ShadowSeries, averages []schema.ShadowAveragePoint, name string, cfg *contract.Config, duration time.Duration) error {
	return PrintShadowResults(series, shadows, averages, name, cfg, duration)
}

// WriteGoal prints a goal projection using the configured output format.
func (ow *OutWriter) WriteGoal(projection schema.GoalProjection, name string, cfg *contract.Config, duration time.Duration) error {
	return PrintGoalResults(projection, name, cfg, duration)
}

// WriteAnomalies prints anomaly results using the configured output format.
func (ow *OutWriter) WriteAnomalies(result schema.AnomalyResult, name string, cfg *contract.Config, duration time.Duration) error {
	return PrintAnomalyResults(result, name, cfg, duration)
}

// GetTerminalWidth returns the effective terminal width for table output,
// honoring the config override and falling back to a conservative default
// for narrow terminals and CI.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80
	}
	return detectedWidth
}
