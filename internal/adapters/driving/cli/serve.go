package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALEX8642/LLM-chatbot/internal/adapters/driving/mcp"
)

var (
	serveHTTP bool
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the ask, list_manuals,
and ingest tools.

By default the server speaks JSON-RPC over stdio, which is what desktop AI
assistants expect. Use --http to listen on server.addr instead; Prometheus
metrics are then served at /metrics on the same address.

Examples:
  # Stdio mode (for desktop assistants)
  manualqa serve

  # HTTP mode (for MCP Inspector, remote access, and metrics scraping)
  manualqa serve --http --addr 127.0.0.1:8765

Assistant configuration:
  {
    "mcpServers": {
      "manualqa": {
        "command": "/path/to/manualqa",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve over HTTP instead of stdio")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireServices(cmd); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ask:     askService,
		Catalog: catalogService,
		Ingest:  ingestService,
		Health:  healthService,
	})
	if err != nil {
		return err
	}

	if !serveHTTP {
		return server.Run(cmd.Context())
	}

	addr := serveAddr
	if addr == "" {
		addr = serverAddr()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
	if metricsHandler != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Metrics at http://%s%s\n", addr, mcp.MetricsPath)
	}
	if healthService != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Health at http://%s%s\n", addr, mcp.HealthPath)
	}
	return server.RunHTTP(cmd.Context(), addr, metricsHandler)
}
