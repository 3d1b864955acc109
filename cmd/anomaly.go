package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trendboard/trendboard/core"
	"github.com/trendboard/trendboard/internal/contract"
)

// anomalyCmd flags anomalous points in a series.
var anomalyCmd = &cobra.Command{
	Use:   "anomaly [series-path]",
	Short: "Detect points outside the expected range",
	Long: `Flag points that fall outside a rolling expected range.

Each point is compared against the mean and standard deviation of a
centered window around it. Sensitivity controls how wide the accepted
band is: low flags only extreme outliers, high flags mild ones too.

Examples:
  # Default (medium) sensitivity
  trendboard anomaly signups.json

  # Catch milder deviations on a weekly-seasonal series
  trendboard anomaly signups.json --sensitivity high --season-length 7

  # Include expected-range bands for every point
  trendboard anomaly signups.json --bands yes --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnomalies(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot detect anomalies", err)
		}
	},
}
