package cmd

import (
	"github.com/huangsam/repometrics/core"
	"github.com/spf13/cobra"
)

// runCmd evaluates every configured repository.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every configured repository and print the reports.",
	Long: `Evaluate all repositories listed in the config file against the configured metrics.

For each repository the working copy is acquired, its manifest is read and every
metric is resolved. A metric whose last result was recorded at the current revision
is reused without running it again.

A repository that cannot be evaluated is listed separately and never affects the
others. Use --strict to turn that into a non-zero exit.

Examples:
  # Evaluate local working copies with the default metrics
  repometrics run

  # Clone or update remote repositories first, then install dependencies
  repometrics run --fetch --install

  # Write JSON that can be fed back as --prior-report next time
  repometrics run --output json --output-file report.json

  # Keep results of the other metrics when one of them fails
  repometrics run --partial-results`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteRun(rootCtx, cfg, storeManager)
	},
}
