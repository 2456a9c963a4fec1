package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zwanski-tech/sitesearch/internal/adapters/driving/httpapi"
	"github.com/zwanski-tech/sitesearch/internal/core/services"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search HTTP API",
	Long: `Starts the HTTP API the site's search page talks to:

  GET /v1/search?q=...&type=...&page=...&pageSize=...
  GET /v1/sources
  GET /healthz`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", services.DefaultServerAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil || sourceRegistry == nil {
		return errors.New("search service not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := listenAddr(cmd.Flags().Changed("addr"))
	server := httpapi.NewServer(searchService, sourceRegistry)
	cmd.Printf("Listening on %s\n", addr)
	return server.ListenAndServe(ctx, addr)
}

// listenAddr resolves the bind address: an explicit --addr wins, then
// the configured server.addr, then the flag default.
func listenAddr(flagSet bool) string {
	if !flagSet && configuredServerAddr != "" {
		return configuredServerAddr
	}
	return serveAddr
}
