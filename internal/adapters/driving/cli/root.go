// Package cli implements the sitesearch command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/sqlite"
	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
	"github.com/zwanski-tech/sitesearch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services, set once by Configure before Execute.
var (
	searchService        driving.SearchService
	sourceRegistry       driving.SourceRegistry
	contentStore         *sqlite.Store
	resultCache          driven.ResultCache
	engineSettings       domain.EngineSettings
	configuredServerAddr string
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "sitesearch",
	Short: "Federated search across the site's content collections",
	Long: `sitesearch aggregates search across the site's pages, blog posts,
job listings, courses, and tools, merging them into one ranked,
faceted result list.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Ports holds everything the CLI commands need.
type Ports struct {
	// Search is the federated search front door.
	Search driving.SearchService

	// Registry lists the registered sources.
	Registry driving.SourceRegistry

	// Content is the SQLite content store used by the index commands.
	Content *sqlite.Store

	// Cache is invalidated when content changes. Optional.
	Cache driven.ResultCache

	// Settings are the effective engine settings.
	Settings domain.EngineSettings

	// ServerAddr is the configured HTTP API address. Optional; the
	// serve command's --addr flag overrides it.
	ServerAddr string
}

// Configure injects the services the commands run against.
func Configure(ports Ports) {
	searchService = ports.Search
	sourceRegistry = ports.Registry
	contentStore = ports.Content
	resultCache = ports.Cache
	engineSettings = ports.Settings
	configuredServerAddr = ports.ServerAddr
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
