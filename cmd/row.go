package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trendboard/trendboard/core"
	"github.com/trendboard/trendboard/internal/contract"
)

// rowCmd computes the dashboard row readout for a series.
var rowCmd = &cobra.Command{
	Use:   "row [series-path]",
	Short: "Compute the dashboard row readout for a selection date",
	Long: `Compute the full row readout a dashboard shows for one metric.

The readout combines the selection value, the focus-window mean and range,
shadow baselines, the goal value, an optional forecast value, and any
configured comparisons against those references.

Examples:
  # Selection value plus focus-window stats
  trendboard row signups.json --selection 2024-06-15 --focus-start 2024-06-01 --focus-end 2024-06-30

  # Compare against the same day one year ago
  trendboard row signups.json --selection 2024-06-15 --shadows 1:year:align --compare vs-ly=shadow0:selection

  # Smoothed row with a goal comparison
  trendboard row signups.json --selection 2024-06-15 --smoothing 7:day --goal-type continuous --goal-target 100 --compare vs-goal=goal:selection`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetricRow(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot compute row readout", err)
		}
	},
}
