package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zwanski-tech/sitesearch/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Runs an MCP (Model Context Protocol) server exposing the federated
search as tools, over stdio by default or HTTP with --http.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	if searchService == nil || sourceRegistry == nil {
		return errors.New("search service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:   searchService,
		Registry: sourceRegistry,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mcpHTTPAddr != "" {
		return server.RunHTTP(ctx, mcpHTTPAddr)
	}
	return server.Run(ctx)
}
