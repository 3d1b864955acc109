// Package cmd defines the command-line interface for trendboard.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(rowCmd)
	rootCmd.AddCommand(shadowCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(anomalyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsHistoryCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("name", "", "Display name for the series (defaults to the file's own name)")
	rootCmd.PersistentFlags().String("selection", "", "Selection date in YYYY-MM-DD")
	rootCmd.PersistentFlags().String("focus-start", "", "Focus window start date in YYYY-MM-DD")
	rootCmd.PersistentFlags().String("focus-end", "", "Focus window end date in YYYY-MM-DD")
	rootCmd.PersistentFlags().String("smoothing", "", "Rolling window spec '<period>:<unit>' (e.g. 7:day)")
	rootCmd.PersistentFlags().String("group-by", "", "Calendar bucket: week or month or quarter or year")
	rootCmd.PersistentFlags().String("shadows", "", "Comma-separated shadow specs '<periods>:<unit>[:align]' (e.g. 1:year:align)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("run-backend", "", "Run-history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("remote-url", "", "Base URL of a remote forecast service (falls back to local on failure)")
	rootCmd.PersistentFlags().String("remote-model", "AutoETS", "Model name requested from the remote forecast service")
	rootCmd.PersistentFlags().String("remote-timeout", "10s", "Timeout for remote forecast requests")
	rootCmd.PersistentFlags().Int("season-length", 0, "Season length in points (0 = auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().Int("horizon", contract.DefaultHorizon, "Number of future steps to forecast")
	forecastCmd.Flags().String("seasonal", "", "Seasonal mode: none or additive or multiplicative")
	forecastCmd.Flags().Int("confidence-level", contract.DefaultConfidenceLevel, "Confidence level percent: 90 or 95 or 99")
	forecastCmd.Flags().String("alpha", "", "Level smoothing factor override (0-1)")
	forecastCmd.Flags().String("beta", "", "Trend smoothing factor override (0-1)")
	forecastCmd.Flags().String("gamma", "", "Seasonal smoothing factor override (0-1)")
	forecastCmd.Flags().String("target", "", "Manual forecast target value (disables smoothing)")
	forecastCmd.Flags().String("interpolation", "", "Manual forecast interpolation: linear or exponential")
	forecastCmd.Flags().String("forecast-start", "", "Forecast anchor date in YYYY-MM-DD")
	forecastCmd.Flags().String("intervals", "", "Include confidence intervals (yes/no)")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of rowCmd to Viper
	rowCmd.Flags().Bool("forecast", false, "Include a forecast value in the row readout")
	rowCmd.Flags().String("compare", "", "Comma-separated comparison specs '<id>=<source>:<scope>' (e.g. vs-ly=shadow0:selection)")
	if err := viper.BindPFlags(rowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding row flags", err)
	}

	// Bind all flags of goalCmd to Viper
	goalCmd.Flags().String("goal-type", "", "Goal type: continuous or end-of-period")
	goalCmd.Flags().String("goal-target", "", "Goal target value")
	goalCmd.Flags().String("goal-start", "", "Goal start date in YYYY-MM-DD")
	goalCmd.Flags().String("goal-end", "", "Goal end date in YYYY-MM-DD")
	goalCmd.Flags().String("goal-end-value", "", "Goal end value for end-of-period goals")
	if err := viper.BindPFlags(goalCmd.Flags()); err != nil {
		contract.LogFatal("Error binding goal flags", err)
	}

	// Bind all flags of anomalyCmd to Viper
	anomalyCmd.Flags().String("sensitivity", string(schema.SensitivityMedium), "Detection sensitivity: low or medium or high")
	anomalyCmd.Flags().String("bands", "", "Include expected-range bands for every point (yes/no)")
	if err := viper.BindPFlags(anomalyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding anomaly flags", err)
	}

	// Bind all flags of runsHistoryCmd to Viper
	runsHistoryCmd.Flags().Int("limit", 20, "Number of runs to display")
	if err := viper.BindPFlags(runsHistoryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs history flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
