// Package tui provides the interactive search-as-you-type interface.
// Keystrokes feed the debounce watcher; only input that survives the
// debounce window is aggregated, and only the newest query's result
// is ever rendered.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zwanski-tech/sitesearch/internal/adapters/driving/tui/styles"
	"github.com/zwanski-tech/sitesearch/internal/core/domain"
	"github.com/zwanski-tech/sitesearch/internal/core/services"
)

// resultMsg carries a fresh aggregation result into the update loop.
type resultMsg struct {
	result *domain.AggregationResult
}

// errMsg carries a normalisation failure into the update loop.
type errMsg struct {
	err error
}

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	watcher *services.Watcher
	styles  *styles.Styles
	ctx     context.Context

	input    textinput.Model
	result   *domain.AggregationResult
	facet    domain.SourceType
	selected int
	err      error

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application around a debounce watcher.
func NewApp(watcher *services.Watcher) *App {
	ti := textinput.New()
	ti.Placeholder = "Search pages, blog, jobs, courses, tools..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &App{
		watcher: watcher,
		styles:  styles.DefaultStyles(),
		ctx:     context.Background(),
		input:   ti,
		facet:   domain.FacetAll,
	}
}

// WithContext sets the context used for aggregation calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("sitesearch"),
		a.waitForResult(),
		a.waitForError(),
	)
}

// waitForResult blocks on the watcher's result channel.
func (a *App) waitForResult() tea.Cmd {
	return func() tea.Msg {
		return resultMsg{result: <-a.watcher.Results()}
	}
}

// waitForError blocks on the watcher's error channel.
func (a *App) waitForError() tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: <-a.watcher.Errors()}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case resultMsg:
		a.result = msg.result
		a.err = nil
		a.selected = 0
		return a, a.waitForResult()

	case errMsg:
		a.err = msg.err
		return a, a.waitForError()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		a.watcher.Close()
		return a, tea.Quit

	case "up":
		if a.selected > 0 {
			a.selected--
		}
		return a, nil

	case "down":
		if a.selected < len(a.visibleItems())-1 {
			a.selected++
		}
		return a, nil

	case "tab":
		a.cycleFacet()
		return a, nil
	}

	var cmd tea.Cmd
	before := a.input.Value()
	a.input, cmd = a.input.Update(msg)
	after := a.input.Value()

	if after != before {
		if strings.TrimSpace(after) == "" {
			// Cleared input: drop results instead of searching.
			a.result = nil
			a.err = nil
			return a, cmd
		}
		if err := a.watcher.Submit(a.ctx, after); err != nil {
			a.err = err
		}
	}
	return a, cmd
}

// cycleFacet steps through "all" plus every type present in the
// current result. Switching tabs re-slices the already-fetched
// result; it never re-aggregates.
func (a *App) cycleFacet() {
	if a.result == nil {
		return
	}
	tabs := a.facetTabs()
	for i, t := range tabs {
		if t == a.facet {
			a.facet = tabs[(i+1)%len(tabs)]
			a.selected = 0
			return
		}
	}
	a.facet = domain.FacetAll
}

func (a *App) facetTabs() []domain.SourceType {
	tabs := []domain.SourceType{domain.FacetAll}
	if a.result == nil {
		return tabs
	}
	for _, t := range sortedTypes(a.result.FacetCounts) {
		tabs = append(tabs, t)
	}
	return tabs
}

func (a *App) visibleItems() []domain.SearchResultItem {
	if a.result == nil {
		return nil
	}
	return domain.FilterByType(a.result.Items, a.facet)
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("sitesearch"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n\n")

	if a.err != nil {
		b.WriteString(a.styles.Error.Render(fmt.Sprintf("  %v", a.err)))
		b.WriteString("\n")
		return b.String()
	}

	if a.result == nil {
		b.WriteString(a.styles.Muted.Render("  Type to search."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(a.renderFacetTabs())
	b.WriteString("\n\n")

	if a.result.Degraded() {
		b.WriteString(a.styles.Warning.Render(
			fmt.Sprintf("  some results may be incomplete (%v unavailable)", a.result.FailedSources)))
		b.WriteString("\n\n")
	}

	items := a.visibleItems()
	if len(items) == 0 {
		b.WriteString(a.styles.Muted.Render("  No results."))
		b.WriteString("\n")
		return b.String()
	}

	for i, item := range items {
		line := fmt.Sprintf("%s  %s", item.Title, a.styles.Muted.Render(string(item.Type)))
		if i == a.selected {
			b.WriteString(a.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(a.styles.Result.Render("  " + line))
		}
		b.WriteString("\n")
		if item.URL != "" {
			b.WriteString(a.styles.Muted.Render("    " + item.URL))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render(
		fmt.Sprintf("  %d matches - tab: facet, esc: quit", a.result.Total)))
	b.WriteString("\n")

	return b.String()
}

func (a *App) renderFacetTabs() string {
	var parts []string
	for _, t := range a.facetTabs() {
		label := string(t)
		if t != domain.FacetAll {
			label = fmt.Sprintf("%s (%d)", t, a.result.FacetCounts[t])
		}
		if t == a.facet {
			parts = append(parts, a.styles.Selected.Render("["+label+"]"))
		} else {
			parts = append(parts, a.styles.Muted.Render(" "+label+" "))
		}
	}
	return "  " + strings.Join(parts, " ")
}

func sortedTypes(facets map[domain.SourceType]int) []domain.SourceType {
	types := make([]domain.SourceType, 0, len(facets))
	for t := range facets {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Selected returns the currently highlighted item, if any.
func (a *App) Selected() *domain.SearchResultItem {
	items := a.visibleItems()
	if a.selected < 0 || a.selected >= len(items) {
		return nil
	}
	return &items[a.selected]
}
