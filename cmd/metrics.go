package cmd

import (
	"github.com/huangsam/repometrics/core"
	"github.com/spf13/cobra"
)

// metricsCmd displays the configured metrics grouped for presentation.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the configured metrics, their groups and result schemas",
	Long: `Show every configured metric with its group, description and result schema.

No repository is evaluated - this is purely informational.

Examples:
  # Show all built-in metrics
  repometrics metrics

  # Show a subset as JSON
  repometrics metrics --metrics has_readme,react_version --output json`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteMetricsListing(rootCtx, cfg, storeManager)
	},
}
