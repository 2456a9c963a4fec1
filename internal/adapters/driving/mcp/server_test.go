package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for MCP tests.
type mockSearchService struct {
	lastRaw  string
	lastOpts driving.SearchOptions
	result   *domain.AggregationResult
	err      error
}

func (m *mockSearchService) Search(
	_ context.Context, raw string, opts driving.SearchOptions,
) (*domain.AggregationResult, error) {
	m.lastRaw = raw
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockSearchService) Aggregate(
	_ context.Context, query domain.SearchQuery,
) (*domain.AggregationResult, error) {
	return m.result, m.err
}

type mockRegistry struct {
	types []domain.SourceType
}

func (m *mockRegistry) Types() []domain.SourceType {
	return m.types
}

func validPorts() *Ports {
	return &Ports{
		Search: &mockSearchService{result: &domain.AggregationResult{
			FacetCounts: map[domain.SourceType]int{},
		}},
		Registry: &mockRegistry{},
	}
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{
			name:    "all ports set",
			ports:   validPorts(),
			wantErr: nil,
		},
		{
			name:    "missing search service",
			ports:   &Ports{Registry: &mockRegistry{}},
			wantErr: ErrMissingSearchService,
		},
		{
			name:    "missing registry",
			ports:   &Ports{Search: &mockSearchService{}},
			wantErr: ErrMissingRegistry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	server, err := NewServer(validPorts())
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestNewServer_InvalidPorts(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestHandleSearch(t *testing.T) {
	svc := &mockSearchService{result: &domain.AggregationResult{
		Items: []domain.SearchResultItem{
			{ID: "go-basics", Type: domain.SourceTypeCourse, Title: "Go Basics", URL: "/academy/go-basics", Score: 2},
		},
		FacetCounts:   map[domain.SourceType]int{domain.SourceTypeCourse: 1},
		FailedSources: []domain.SourceType{domain.SourceTypeBlog},
		Total:         1,
	}}

	server, err := NewServer(&Ports{Search: svc, Registry: &mockRegistry{}})
	require.NoError(t, err)

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{
		Query:    "go",
		Types:    []string{"course"},
		Page:     1,
		PageSize: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "go", svc.lastRaw)
	assert.Equal(t, []domain.SourceType{domain.SourceTypeCourse}, svc.lastOpts.Types)
	assert.Equal(t, 1, svc.lastOpts.Page)
	assert.Equal(t, 5, svc.lastOpts.PageSize)

	require.Len(t, output.Items, 1)
	assert.Equal(t, "go-basics", output.Items[0].ID)
	assert.Equal(t, "course", output.Items[0].Type)
	assert.Equal(t, map[string]int{"course": 1}, output.FacetCounts)
	assert.Equal(t, []string{"blog"}, output.FailedSources)
	assert.Equal(t, 1, output.Total)
}

func TestHandleSearch_InvalidQuery(t *testing.T) {
	svc := &mockSearchService{err: domain.ErrInvalidQuery}
	server, err := NewServer(&Ports{Search: svc, Registry: &mockRegistry{}})
	require.NoError(t, err)

	_, _, err = server.handleSearch(context.Background(), nil, SearchInput{Query: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestHandleListSources(t *testing.T) {
	registry := &mockRegistry{types: []domain.SourceType{
		domain.SourceTypeBlog, domain.SourceTypeJob, domain.SourceTypeTool,
	}}
	server, err := NewServer(&Ports{Search: &mockSearchService{}, Registry: registry})
	require.NoError(t, err)

	_, output, err := server.handleListSources(context.Background(), nil, SourcesInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"blog", "job", "tool"}, output.Sources)
}
