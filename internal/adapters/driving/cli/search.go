package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
)

var (
	searchType     string
	searchPage     int
	searchPageSize int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search across all registered sources",
	Long: `Fans the query out to every registered source, merges the answers
into one ranked list, and prints the requested page together with
per-type facet counts.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "restrict to one source type (page, blog, job, course, tool)")
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "zero-based page index")
	searchCmd.Flags().IntVarP(&searchPageSize, "page-size", "n", 0, "items per page")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := driving.SearchOptions{
		Page:     searchPage,
		PageSize: searchPageSize,
	}
	if searchType != "" && searchType != domain.FacetAll.String() {
		opts.Types = []domain.SourceType{domain.SourceType(searchType)}
	}

	result, err := searchService.Search(context.Background(), args[0], opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			return fmt.Errorf("invalid query: %w", err)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}

	return outputSearchTable(cmd, result)
}

func outputSearchJSON(cmd *cobra.Command, result *domain.AggregationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, result *domain.AggregationResult) error {
	if result.Degraded() {
		cmd.Printf("Warning: %v did not respond; results may be incomplete.\n\n", result.FailedSources)
	}

	if len(result.Items) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d total):\n\n", result.Total)
	offset := result.Query.Page * result.Query.PageSize
	for i := range result.Items {
		item := &result.Items[i]
		cmd.Printf("  [%d] %s (%s, %.1f)\n", offset+i+1, item.Title, item.Type, item.Score)
		if item.URL != "" {
			cmd.Printf("      %s\n", item.URL)
		}
		if item.Description != "" {
			cmd.Printf("      %s\n", truncate(item.Description, 120))
		}
		cmd.Println()
	}

	cmd.Print("Facets: ")
	for i, t := range sortedFacetTypes(result.FacetCounts) {
		if i > 0 {
			cmd.Print("  ")
		}
		cmd.Printf("%s=%d", t, result.FacetCounts[t])
	}
	cmd.Println()

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func sortedFacetTypes(facets map[domain.SourceType]int) []domain.SourceType {
	types := make([]domain.SourceType, 0, len(facets))
	for t := range facets {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
