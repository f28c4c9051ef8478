package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/internal/iocache"
	"github.com/huangsam/repometrics/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackend resolves the run history backend and connection string.
func historyBackend() (schema.DatabaseBackend, string, error) {
	if err := readConfigFile(); err != nil {
		return "", "", err
	}
	backend, err := backendFromViper("run-backend", schema.NoneBackend)
	if err != nil {
		return "", "", err
	}
	connStr := viper.GetString("run-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for run history operations.
func historySetup() error {
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}

	// No report store for history commands
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads configuration for migrations. It does NOT initialize
// stores or create tables, so migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetRunDBFilePath()
	}
	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage run history tracking and exports",
	Long: `Manage the run history used for trend tracking and reporting.

When enabled with --run-backend, every run is tracked, storing:
- Run metadata (timestamp, configuration, duration)
- Every metric result per repository, and whether it was reused

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  repometrics history status --run-backend sqlite

  # Export for analysis in pandas/DuckDB
  repometrics history export --run-backend sqlite --output-file history`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all stored runs and metric results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  repometrics history export --run-backend sqlite --output-file backup
  repometrics history clear --run-backend sqlite`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		iocache.CloseStores()
		dbPath := cfg.RunDBConnect
		if dbPath == "" {
			dbPath = iocache.GetRunDBFilePath()
		}
		if err := iocache.ClearRuns(cfg.RunBackend, dbPath, cfg.RunDBConnect); err != nil {
			return fmt.Errorf("failed to clear run history: %w", err)
		}
		_, err := fmt.Fprintln(os.Stdout, "Run history cleared successfully.")
		return err
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about run history tracking.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total repositories evaluated across all runs
- Database table sizes

Examples:
  repometrics history status --run-backend sqlite`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			return fmt.Errorf("run tracking is not enabled")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get run history status: %w", err)
		}
		iocache.PrintRunStoreStatus(os.Stdout, status)
		return nil
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run history to Parquet format.

Exports two datasets next to --output-file:
- <output-file>.runs.parquet - metadata about each run
- <output-file>.metric_results.parquet - every metric result per repository

Requires: --output-file parameter

Examples:
  repometrics history export --run-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.metric_results.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return iocache.ExportRuns(os.Stdout, iocache.Manager.GetRunStore(), cfg.OutputFile)
	},
}

// historyMigrateCmd runs database migrations for the run history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  repometrics history migrate --run-backend sqlite

  # Migrate to specific version
  repometrics history migrate --run-backend sqlite --target-version 1

  # Rollback to the initial state
  repometrics history migrate --run-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return iocache.MigrateRuns(os.Stdout, cfg.RunBackend, cfg.RunDBConnect, viper.GetInt("target-version"))
	},
}
