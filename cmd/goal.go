package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trendboard/trendboard/core"
	"github.com/trendboard/trendboard/internal/contract"
)

// goalCmd projects a goal line over a series.
var goalCmd = &cobra.Command{
	Use:   "goal [series-path]",
	Short: "Project a goal line over the series date range",
	Long: `Project a goal line the series can be tracked against.

Continuous goals hold a flat target over the whole range. End-of-period
goals ramp from the series' starting value to the target by the end date,
using linear or step interpolation.

Examples:
  # Flat target of 100 across the range
  trendboard goal signups.json --goal-type continuous --goal-target 100

  # Ramp to 500 by year end
  trendboard goal signups.json --goal-type end-of-period --goal-end-value 500 --goal-start 2024-01-01 --goal-end 2024-12-31`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGoal(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot project goal", err)
		}
	},
}
