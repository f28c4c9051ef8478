package cmd

import (
	"github.com/huangsam/repometrics/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Repometrics MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents list metrics, read recorded results and evaluate repositories.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
