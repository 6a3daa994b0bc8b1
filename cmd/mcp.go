package cmd

import (
	"github.com/huangsam/commitstat/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [default-repo-path]",
	Short: "Start the commitstat MCP server",
	Long: `Launch an MCP server over stdio so AI agents can walk repositories and
classify paths through standard tools.

Tools:
  get_commit_stats - walk a repository and return its statistics
  classify_paths   - bucket paths into components and languages`,
	Args: cobra.MaximumNArgs(1),
	// The walk header is suppressed inside the tools so stdout stays protocol-only.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitClient, cacheManager)
	},
}
