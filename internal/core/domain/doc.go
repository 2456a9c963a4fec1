// Package domain defines the core business entities for sitesearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies beyond uuid and defines the
// fundamental types:
//
//   - SourceType: The category a searchable collection serves
//   - SearchQuery: A canonicalised, immutable search request
//   - SearchResultItem: A single scored hit from one source
//   - AggregationResult: The merged, ranked, faceted answer to a query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
package domain
