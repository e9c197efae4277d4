package cmd

import (
	"github.com/faultline-io/faultline/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Faultline MCP server",
	Long:  `Launch an MCP server that allows AI agents to run anomaly detection, classification and insight generation via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress the normal header logs when running in MCP mode
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
