package cmd

import (
	"github.com/huangsam/repometrics/core"
	"github.com/spf13/cobra"
)

// timeseriesCmd evaluates the recent commits of one repository.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries <label>",
	Short: "Evaluate the most recent commits of one repository.",
	Long: `Evaluate one configured repository at each of its most recent commits.

Every commit is checked out into a scratch worktree next to the working copy,
so the working copy never moves. The output has one point per commit, newest
first, with the commit date and the report of that revision. A commit that
cannot be evaluated keeps its error and the others are still reported.

Reports of past commits are not stored.

Examples:
  # Compare the last five commits of a repository
  repometrics timeseries web

  # Walk further back and write CSV for a spreadsheet
  repometrics timeseries web --commits 20 --output csv --output-file web.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, args []string) error {
		return core.ExecuteTimeseries(rootCtx, cfg, storeManager, args[0])
	},
}
