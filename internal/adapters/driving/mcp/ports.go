package mcp

import (
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Search provides federated search capabilities.
	Search driving.SearchService

	// Registry lists the registered source types.
	Registry driving.SourceRegistry
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	return nil
}
