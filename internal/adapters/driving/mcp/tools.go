package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string   `json:"query" jsonschema:"the search query to run across the site's collections"`
	Types    []string `json:"types,omitempty" jsonschema:"restrict to these source types (page, blog, job, course, tool); empty means all"`
	Page     int      `json:"page,omitempty" jsonschema:"zero-based page index (default 0)"`
	PageSize int      `json:"page_size,omitempty" jsonschema:"items per page (default 20)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Items         []SearchItemOutput `json:"items"`
	FacetCounts   map[string]int     `json:"facet_counts"`
	FailedSources []string           `json:"failed_sources,omitempty"`
	Total         int                `json:"total"`
}

// SearchItemOutput represents a single search result.
type SearchItemOutput struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
}

// SourcesInput is the input schema for the list_sources tool.
type SourcesInput struct{}

// SourcesOutput is the output schema for the list_sources tool.
type SourcesOutput struct {
	Sources []string `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across the site's pages, blog posts, jobs, courses, and tools",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List the searchable source types",
	}, s.handleListSources)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := driving.SearchOptions{
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	for _, t := range input.Types {
		opts.Types = append(opts.Types, domain.SourceType(t))
	}

	result, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Items:       make([]SearchItemOutput, len(result.Items)),
		FacetCounts: make(map[string]int, len(result.FacetCounts)),
		Total:       result.Total,
	}
	for i, item := range result.Items {
		output.Items[i] = SearchItemOutput{
			ID:          item.ID,
			Type:        item.Type.String(),
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Score:       item.Score,
		}
	}
	for t, n := range result.FacetCounts {
		output.FacetCounts[t.String()] = n
	}
	for _, t := range result.FailedSources {
		output.FailedSources = append(output.FailedSources, t.String())
	}

	return nil, output, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ SourcesInput,
) (*mcp.CallToolResult, SourcesOutput, error) {
	types := s.ports.Registry.Types()
	output := SourcesOutput{Sources: make([]string, len(types))}
	for i, t := range types {
		output.Sources[i] = t.String()
	}
	return nil, output, nil
}
