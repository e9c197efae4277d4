package cmd

import (
	"fmt"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/faultline-io/faultline/internal/outwriter"
	"github.com/faultline-io/faultline/internal/runstore"
	"github.com/faultline-io/faultline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historySetup loads minimal configuration needed for run store operations.
// This is used by commands that need store access without full shared setup.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as SQLite so 'history status' works out of the box
	var backend schema.DatabaseBackend
	if backendStr == "" || backendStr == string(schema.NoneBackend) {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the run store with the loaded config
	if err := runstore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.ResultLimit = viper.GetInt("limit")
	cfg.Precision = viper.GetInt("precision")

	emojis, err := contract.ParseBoolString(viper.GetString("emoji"))
	if err != nil {
		return err
	}
	cfg.UseEmojis = emojis

	return nil
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" || backendStr == string(schema.NoneBackend) {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetStoreDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// historyCmd focused on detection run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead
// of the full sharedSetup used by detection commands. This avoids readings
// file validation and complex config processing for simple store operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage detection run history and exports",
	Long: `Manage historical detection run data used for trend tracking and reporting.

When a store backend is enabled, Faultline tracks every detection run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-pattern scores including classification results

This enables longitudinal analysis, trend detection, and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  list    - List recent detection runs
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  faultline history status

  # Export for analysis in pandas/DuckDB
  faultline history export --output-file faultline-data.parquet`,
}

// historyStatusCmd shows run store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about detection run tracking.

Displays:
- Backend type and connection status
- Total number of detection runs stored
- Last and oldest run timestamps
- Total patterns recorded across all runs
- Database table sizes

Use this to:
- Verify run tracking is enabled and working
- Monitor data accumulation over time
- Check database connection health

Examples:
  # Check run tracking status
  faultline history status`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := runstore.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run store status", err)
		}
		if err := outwriter.PrintStoreStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print run store status", err)
		}
	},
}

// historyListCmd lists recent detection runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent detection runs, newest first",
	Long: `List stored detection runs with their timing and pattern counts.

Each row shows the run ID, start time, duration, points analyzed and
patterns detected. Runs still in progress show a running duration.

Examples:
  # Show the most recent runs
  faultline history list

  # Show more runs as JSON
  faultline history list --limit 100 --output json`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := runstore.Manager.GetRunStore().GetRuns(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Failed to list detection runs", err)
		}
		if err := outwriter.PrintRunHistory(runs, cfg); err != nil {
			contract.LogFatal("Failed to print run history", err)
		}
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run data to Parquet format for use with analytics tools.

Exports two datasets:
- Detection runs - metadata about each detection execution
- Pattern scores - per-pattern detection and classification scores

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  faultline history export --output-file faultline-data.parquet

  # Use with DuckDB for analysis
  faultline history export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.detection_runs.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all detection run history",
	Long: `Delete all stored detection runs and pattern scores.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the run tables

Examples:
  # Export before clearing
  faultline history export --output-file backup.parquet
  faultline history clear`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		// For SQLite a custom connection string is the file to remove.
		dbFilePath := cfg.StoreDBConnect
		if dbFilePath == "" {
			dbFilePath = contract.GetStoreDBFilePath()
		}
		if err := runstore.ClearStore(cfg.StoreBackend, dbFilePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the run store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

Migrations allow:
- Upgrading to new schema versions when Faultline is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  faultline history migrate

  # Migrate to specific version
  faultline history migrate --target-version 2

  # Rollback to previous version
  faultline history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRunStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
