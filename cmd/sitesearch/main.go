// Command sitesearch is the federated search engine for the site's
// content: pages, blog posts, job listings, courses, and tools.
package main

import (
	"fmt"
	"os"

	cachemem "github.com/zwanski-tech/sitesearch/internal/adapters/driven/cache/memory"
	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/config/file"
	sourcemem "github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/memory"
	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/rest"
	"github.com/zwanski-tech/sitesearch/internal/adapters/driven/sources/sqlite"
	"github.com/zwanski-tech/sitesearch/internal/adapters/driving/cli"
	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driven"
	"github.com/zwanski-tech/sitesearch/internal/core/services"
	"github.com/zwanski-tech/sitesearch/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sitesearch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	defer configStore.Close()

	settings := services.LoadSettings(configStore)

	contentStore, err := sqlite.NewStore(configStore.GetString(services.KeyDataDir))
	if err != nil {
		return fmt.Errorf("opening content store: %w", err)
	}
	defer contentStore.Close()

	registry := services.NewSourceRegistry()

	// Row-backed collections live in the content store.
	for _, t := range []domain.SourceType{domain.SourceTypeBlog, domain.SourceTypeJob, domain.SourceTypeCourse} {
		if err := registry.Register(contentStore.Source(t)); err != nil {
			return fmt.Errorf("registering %s source: %w", t, err)
		}
	}

	// Static collections ship with the binary.
	if err := registry.Register(sourcemem.NewSource(domain.SourceTypePage, sitePages())); err != nil {
		return fmt.Errorf("registering page source: %w", err)
	}
	if err := registry.Register(sourcemem.NewSource(domain.SourceTypeTool, siteTools())); err != nil {
		return fmt.Errorf("registering tool source: %w", err)
	}

	// Remote collections come from config.
	for _, remote := range services.LoadRemoteSources(configStore) {
		src := rest.NewSource(remote.Type, remote.URL, remote.RequestsPerSecond, nil)
		if err := registry.Register(src); err != nil {
			logger.Warn("Skipping remote source %s: %v", remote.Type, err)
		}
	}

	var cache driven.ResultCache
	if settings.CacheTTL > 0 {
		ttlCache := cachemem.NewCache(settings.CacheTTL)
		cache = ttlCache
		// Config edits change matching behaviour; drop stale results.
		configStore.Watch(ttlCache.Invalidate)
	}

	search := services.NewSearchService(registry, cache, settings)

	cli.Configure(cli.Ports{
		Search:     search,
		Registry:   registry,
		Content:    contentStore,
		Cache:      cache,
		Settings:   settings,
		ServerAddr: configStore.GetString(services.KeyServerAddr),
	})

	return cli.Execute()
}

// sitePages is the static page collection.
func sitePages() []sourcemem.Record {
	return []sourcemem.Record{
		{ID: "home", Title: "Home", Description: "IT services, web development, and device repair in Tunisia", URL: "/"},
		{ID: "services", Title: "Services", Description: "Web development, IT support, device repair, and custom software", URL: "/services"},
		{ID: "about", Title: "About", Description: "Who we are and how we work", URL: "/about"},
		{ID: "academy", Title: "Academy", Description: "Micro-learning courses on programming and IT skills", URL: "/academy"},
		{ID: "jobs", Title: "Jobs", Description: "Freelance marketplace and job listings", URL: "/jobs"},
		{ID: "community", Title: "Community", Description: "Forum for questions, answers, and announcements", URL: "/community"},
		{ID: "contact", Title: "Contact", Description: "Get in touch for quotes and support", URL: "/contact"},
	}
}

// siteTools is the static tool collection.
func siteTools() []sourcemem.Record {
	return []sourcemem.Record{
		{ID: "imei-check", Title: "IMEI Checker", Description: "Look up device information by IMEI number", URL: "/tools/imei-check"},
		{ID: "api-explorer", Title: "API Explorer", Description: "Browse and try the public API endpoints", URL: "/tools/api-explorer"},
		{ID: "qr-generator", Title: "QR Generator", Description: "Generate QR codes for links and contact cards", URL: "/tools/qr-generator"},
	}
}
