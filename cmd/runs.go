package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trendboard/trendboard/internal/contract"
	"github.com/trendboard/trendboard/internal/iocache"
	"github.com/trendboard/trendboard/internal/outwriter"
	"github.com/trendboard/trendboard/schema"
)

// runsSetup loads minimal configuration needed for run-history operations.
// This is used by commands that need run access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get run-related config values
	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	// Handle empty backend as SQLite so history commands work out of the box
	var backend schema.CacheBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.CacheBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize stores with the loaded config (no forecast cache for run commands)
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for run commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get run-related config values
	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	var backend schema.CacheBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.CacheBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on run-history data management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage forecast run history and exports",
	Long: `Manage the run history recorded for every forecast execution.

When enabled, Trendboard tracks each forecast run, storing:
- Run metadata (series, method, horizon, duration)
- The resolved smoothing parameters as JSON

This enables auditing past forecasts and exporting history for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run-history statistics
  history - List recent forecast runs
  export  - Export run history to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # List the last runs
  trendboard runs history

  # Export for analysis in pandas/DuckDB
  trendboard runs export --output-file run-data`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all forecast run history",
	Long: `Delete all stored forecast runs.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  trendboard runs export --output-file backup
  trendboard runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunBackend, contract.GetRunDBFilePath(), cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run-history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run-history statistics and connection details",
	Long: `Show detailed information about forecast run tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last run timestamp

Examples:
  # Check run tracking status
  trendboard runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", errors.New("no run backend configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		if err := outwriter.PrintRunStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print run status", err)
		}
	},
}

// runsHistoryCmd lists recent forecast runs.
var runsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent forecast runs, newest first",
	Long: `List the most recent forecast runs with their settings and durations.

Examples:
  # Last 20 runs (default)
  trendboard runs history

  # Last 100 runs as CSV
  trendboard runs history --limit 100 --output csv`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to list runs", errors.New("no run backend configured"))
		}
		runs, err := store.ListRuns(viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.PrintRunHistory(runs, cfg); err != nil {
			contract.LogFatal("Failed to print run history", err)
		}
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored forecast runs to Parquet format for analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools

Requires: --output-file parameter

Examples:
  # Export all run history
  trendboard runs export --output-file trendboard-data

  # Use with DuckDB for analysis
  trendboard runs export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.forecast_runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run-history store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run-history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  trendboard runs migrate

  # Migrate to specific version
  trendboard runs migrate --target-version 1

  # Rollback to initial state
  trendboard runs migrate --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
