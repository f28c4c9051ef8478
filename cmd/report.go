package cmd

import (
	"github.com/huangsam/repometrics/core"
	"github.com/spf13/cobra"
)

// reportCmd reads the prior report set.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect recorded reports without evaluating anything",
	Long: `Read results from the prior report set.

The prior report set is the --prior-report file when given, otherwise the report store.

Subcommands:
  get  - Show the last result of one metric for one repository
  show - Show whole reports

Examples:
  repometrics report get web has_lint_config
  repometrics report show web --output yaml`,
}

// reportGetCmd looks up one metric result.
var reportGetCmd = &cobra.Command{
	Use:     "get <label> <metric>",
	Short:   "Show the last result of one metric for one repository",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteReportLookup(rootCtx, cfg, storeManager, args[0], args[1])
	},
}

// reportShowCmd prints reports.
var reportShowCmd = &cobra.Command{
	Use:     "show [label]",
	Short:   "Show the recorded report of one repository, or of all of them",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		var label string
		if len(args) == 1 {
			label = args[0]
		}
		return core.ExecuteReportShow(rootCtx, cfg, storeManager, label)
	},
}
