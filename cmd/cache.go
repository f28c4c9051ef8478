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

// cacheSetup loads minimal configuration needed for report store operations.
// This is used by commands that need store access without full shared setup.
func cacheSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend, err := backendFromViper("report-backend", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	connStr := viper.GetString("report-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No run tracking for cache commands
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize report store: %w", err)
	}

	cfg.ReportBackend = backend
	cfg.ReportDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on report store management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup. This avoids repository validation for simple store operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the report store that prior results are reused from",
	Long: `Manage the report store holding the last report of every repository.

A metric is not run again when its stored result was recorded at the current revision.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (no persistence)

Subcommands:
  status - Show store statistics and connection info
  clear  - Remove all stored reports

Examples:
  # Check store status
  repometrics cache status

  # Force every metric to run again
  repometrics cache clear`,
}

// cacheClearCmd clears the report store.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored reports",
	Long: `Delete all stored reports from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the reports table

Examples:
  # Clear the SQLite store (default)
  repometrics cache clear

  # Clear a MySQL store (set connection string via env variable)
  REPOMETRICS_REPORT_BACKEND=mysql REPOMETRICS_REPORT_DB_CONNECT="..." repometrics cache clear`,
	PreRunE: cacheSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// The SQLite file cannot be removed while our own handle is open.
		iocache.CloseStores()
		dbPath := cfg.ReportDBConnect
		if dbPath == "" {
			dbPath = iocache.GetReportDBFilePath()
		}
		if err := iocache.ClearReports(cfg.ReportBackend, dbPath, cfg.ReportDBConnect); err != nil {
			return fmt.Errorf("failed to clear report store: %w", err)
		}
		_, err := fmt.Fprintln(os.Stdout, "Report store cleared successfully.")
		return err
	},
}

// cacheStatusCmd shows report store status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display report store statistics and connection details",
	Long: `Show detailed information about the report store.

Displays:
- Backend type and connection status
- Total number of stored reports
- Last and oldest report timestamps
- Store size

Examples:
  repometrics cache status`,
	PreRunE: cacheSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetReportStore()
		if store == nil {
			return fmt.Errorf("report store is not configured")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get report store status: %w", err)
		}
		iocache.PrintReportStoreStatus(os.Stdout, status)
		return nil
	},
}
