package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trendboard/trendboard/core"
	"github.com/trendboard/trendboard/internal/contract"
)

// forecastCmd forecasts future values for a series.
var forecastCmd = &cobra.Command{
	Use:   "forecast [series-path]",
	Short: "Forecast future values of a series with exponential smoothing",
	Long: `Forecast future values for a rate-metric series using exponential smoothing.

The forecaster picks the simplest model the data supports (level only,
level+trend, or level+trend+season), damps the trend on volatile series,
and reports a confidence band around the projected values.

Forecast results are cached: re-running with the same series and settings
returns the stored result instead of recomputing.

Examples:
  # 30-step forecast with defaults
  trendboard forecast signups.json

  # Weekly-seasonal forecast with a 99% confidence band
  trendboard forecast signups.json --seasonal additive --season-length 7 --confidence-level 99

  # Straight-line forecast to a manual target
  trendboard forecast signups.json --target 500 --horizon 60

  # Try a remote statsforecast service, falling back to local
  trendboard forecast signups.json --remote-url http://localhost:8000`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The forecast command always runs the forecaster; the flag only
		// matters for the row readout.
		viper.Set("forecast", true)
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(rootCtx, cfg, cacheManager, remoteService()); err != nil {
			contract.LogFatal("Cannot run forecast", err)
		}
	},
}
