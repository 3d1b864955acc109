package cmd

import (
	"github.com/spf13/cobra"
	"github.com/trendboard/trendboard/core"
	"github.com/trendboard/trendboard/internal/contract"
)

// shadowCmd generates historical shadow baselines for a series.
var shadowCmd = &cobra.Command{
	Use:   "shadow [series-path]",
	Short: "Overlay historical baselines aligned to the live series",
	Long: `Generate historical shadow baselines and align them to the live series.

Each shadow shifts the series back by a calendar offset (1 year, 3 months, ...)
so today's value can be read next to its historical counterpart. With two or
more shadows the across-shadow mean and standard deviation are included.

Examples:
  # This year next to last year, matched by day of week
  trendboard shadow signups.json --shadows 1:year:align

  # Average of the last three years
  trendboard shadow signups.json --shadows 1:year,2:year,3:year

  # Month-over-month view as CSV
  trendboard shadow signups.json --shadows 1:month --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteShadows(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot generate shadows", err)
		}
	},
}
