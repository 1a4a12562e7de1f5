package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search your notes.

Tools:
  search           run a query and return results grouped by service
  recent_searches  list recently completed searches

Resources:
  notesearch://sources           the integrated services
  notesearch://sources/{source}  one service, e.g. notesearch://sources/Google-Drive
  notesearch://recent            the recent-search history

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  notesearch mcp serve
  notesearch mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "notesearch": {
        "command": "/path/to/notesearch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE:        runMCPServe,
	Annotations: map[string]string{annotationAuth: "required"},
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Sessions: sessionFactory,
		Recent:   recentService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
