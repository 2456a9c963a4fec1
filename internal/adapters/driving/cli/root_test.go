package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cachemem "github.com/zwanski-tech/sitesearch/internal/adapters/driven/cache/memory"
	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/memory"
	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/sqlite"
	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/services"
)

// setupTestServices wires the commands to real services over in-memory
// and temp-directory backends. Returns a cleanup function.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	registry := services.NewSourceRegistry()
	require.NoError(t, registry.Register(memory.NewSource(domain.SourceTypeTool, []memory.Record{
		{ID: "imei-check", Title: "IMEI Checker", Description: "Look up device information", URL: "/tools/imei-check"},
		{ID: "qr-generator", Title: "QR Generator", Description: "Generate QR codes", URL: "/tools/qr-generator"},
	})))
	require.NoError(t, registry.Register(memory.NewSource(domain.SourceTypePage, []memory.Record{
		{ID: "services", Title: "Services", Description: "Device repair and IT support", URL: "/services"},
	})))

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, registry.Register(store.Source(domain.SourceTypeBlog)))

	settings := domain.DefaultEngineSettings()
	cache := cachemem.NewCache(time.Minute)

	Configure(Ports{
		Search:   services.NewSearchService(registry, cache, settings),
		Registry: registry,
		Content:  store,
		Cache:    cache,
		Settings: settings,
	})

	return func() {
		store.Close()
		Configure(Ports{})
	}
}

// execute runs the root command with args, capturing combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
