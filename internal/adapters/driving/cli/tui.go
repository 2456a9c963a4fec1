package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zwanski-tech/sitesearch/internal/adapters/driving/tui"
	"github.com/zwanski-tech/sitesearch/internal/core/ports/driving"
	"github.com/zwanski-tech/sitesearch/internal/core/services"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive search-as-you-type interface",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	watcher := services.NewWatcher(searchService, engineSettings.DebounceWindow, driving.SearchOptions{
		// One generous page: facet tabs re-slice locally without
		// re-aggregating.
		PageSize: 100,
	})
	defer watcher.Close()

	app := tui.NewApp(watcher).WithContext(context.Background())
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
