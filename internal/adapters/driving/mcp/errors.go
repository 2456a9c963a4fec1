// Package mcp provides an MCP (Model Context Protocol) server adapter
// for sitesearch. It enables AI assistants to query the site's
// federated search from chat.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingRegistry is returned when the source registry is not provided.
var ErrMissingRegistry = errors.New("mcp: source registry is required")
