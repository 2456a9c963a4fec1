package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
	"github.com/zwanski-tech/sitesearch/internal/core/services"
)

// stubSearchService implements driving.SearchService with a fixed result.
type stubSearchService struct {
	result *domain.AggregationResult
}

func (s *stubSearchService) Search(
	_ context.Context, _ string, _ driving.SearchOptions,
) (*domain.AggregationResult, error) {
	return s.result, nil
}

func (s *stubSearchService) Aggregate(
	_ context.Context, query domain.SearchQuery,
) (*domain.AggregationResult, error) {
	result := *s.result
	result.Query = query
	return &result, nil
}

func testResult() *domain.AggregationResult {
	return &domain.AggregationResult{
		Items: []domain.SearchResultItem{
			{ID: "react-tips", Type: domain.SourceTypeBlog, Title: "React Tips", URL: "/blog/react-tips", Score: 2},
			{ID: "react-dev", Type: domain.SourceTypeJob, Title: "React Developer", URL: "/jobs/react-dev", Score: 2},
			{ID: "react-intro", Type: domain.SourceTypeBlog, Title: "React Intro", URL: "/blog/react-intro", Score: 1},
		},
		FacetCounts: map[domain.SourceType]int{
			domain.SourceTypeBlog: 2,
			domain.SourceTypeJob:  1,
		},
		Total: 3,
	}
}

func newTestApp() (*App, *services.Watcher) {
	watcher := services.NewWatcher(
		&stubSearchService{result: testResult()},
		time.Millisecond,
		driving.SearchOptions{},
	)
	return NewApp(watcher), watcher
}

func TestNewApp(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	assert.Equal(t, domain.FacetAll, app.facet)
	assert.Nil(t, app.result)
	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.Equal(t, 100, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_Update_Result(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.selected = 2
	_, cmd := app.Update(resultMsg{result: testResult()})

	require.NotNil(t, app.result)
	assert.Equal(t, 3, app.result.Total)
	assert.Equal(t, 0, app.selected, "selection resets on a new result")
	assert.NotNil(t, cmd, "must re-arm the result listener")
}

func TestApp_Update_Error(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	_, cmd := app.Update(errMsg{err: domain.ErrInvalidQuery})
	assert.ErrorIs(t, app.err, domain.ErrInvalidQuery)
	assert.NotNil(t, cmd, "must re-arm the error listener")

	// A fresh result clears the error.
	app.Update(resultMsg{result: testResult()})
	assert.NoError(t, app.err)
}

func TestApp_Selection(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.Update(resultMsg{result: testResult()})

	// Up at the top stays put.
	app.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, app.selected)

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, app.selected)

	// Down at the bottom stays put.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, app.selected)

	selected := app.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, "react-intro", selected.ID)
}

func TestApp_FacetCycling(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.Update(resultMsg{result: testResult()})

	// all -> blog -> job -> all.
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.SourceTypeBlog, app.facet)
	assert.Len(t, app.visibleItems(), 2)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.SourceTypeJob, app.facet)
	assert.Len(t, app.visibleItems(), 1)

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.FacetAll, app.facet)
	assert.Len(t, app.visibleItems(), 3)
}

func TestApp_FacetCycling_NoResult(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.FacetAll, app.facet)
}

func TestApp_TypingSubmits(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	assert.Equal(t, "go", app.input.Value())

	// The debounced search lands as a resultMsg on the watcher channel.
	select {
	case result := <-watcher.Results():
		assert.Equal(t, "go", result.Query.NormalisedText)
	case <-time.After(time.Second):
		t.Fatal("typing did not trigger a search")
	}
}

func TestApp_ClearedInputDropsResults(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.Update(resultMsg{result: testResult()})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.NotNil(t, app.result)

	app.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Empty(t, app.input.Value())
	assert.Nil(t, app.result, "cleared input shows the empty state, not stale results")
}

func TestApp_QuitClosesWatcher(t *testing.T) {
	app, watcher := newTestApp()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	err := watcher.Submit(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrWatcherClosed)
}

func TestApp_View(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	// Empty state.
	view := app.View()
	assert.Contains(t, view, "Type to search.")

	// Results render with facet tabs and the footer.
	app.Update(resultMsg{result: testResult()})
	view = app.View()
	assert.Contains(t, view, "React Tips")
	assert.Contains(t, view, "blog (2)")
	assert.Contains(t, view, "3 matches")

	// Degraded results carry a warning.
	degraded := testResult()
	degraded.FailedSources = []domain.SourceType{domain.SourceTypeCourse}
	app.Update(resultMsg{result: degraded})
	assert.Contains(t, app.View(), "incomplete")
}

func TestApp_View_Error(t *testing.T) {
	app, watcher := newTestApp()
	defer watcher.Close()

	app.Update(errMsg{err: domain.ErrInvalidQuery})
	view := app.View()
	assert.True(t, strings.Contains(view, domain.ErrInvalidQuery.Error()))
}
