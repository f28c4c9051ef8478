package cmd

import (
	"runtime"

	"github.com/huangsam/repometrics/core/metrics"
	"github.com/spf13/cobra"
)

// versionCmd prints the build of this binary and the metrics compiled into it.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the repometrics build and its built-in metrics",
	Long: `Print the release, source commit and build date of this repometrics binary.

Reports written by different builds can disagree when a built-in metric
changed between releases. Include this output when comparing or filing
reports so results can be traced to the binary that produced them.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("repometrics %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Metrics:  %d built-in\n", len(metrics.Catalog(metrics.Options{})))
	},
}
