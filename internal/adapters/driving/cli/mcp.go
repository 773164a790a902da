package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formwright/internal/adapters/driving/mcp"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can list, edit
and draft forms.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

Examples:
  # Stdio mode (default)
  formwright mcp serve

  # HTTP mode
  formwright mcp serve --port 8090

Assistant configuration:
  {
    "mcpServers": {
      "formwright": {
        "command": "/path/to/formwright",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
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
	if formService == nil {
		return errFormServiceMissing
	}

	var session driving.GenerationSession
	if newSession != nil {
		session = newSession()
	}
	server, err := mcp.NewServer(&mcp.Ports{
		Forms:     formService,
		Templates: templateService,
		Session:   session,
		Owner:     owner,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
