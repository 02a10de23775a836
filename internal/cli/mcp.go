package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avholm/smartnotes/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run the Model Context Protocol server on stdin/stdout so external
LLM clients (Claude Desktop, editors) can search, read, create, and
update notes.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv := mcpserver.New(notes)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
