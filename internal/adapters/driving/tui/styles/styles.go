// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Warning indicates caution (degraded results).
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2563EB"), // Blue
		Foreground: lipgloss.Color("#E2E8F0"), // Light gray
		Muted:      lipgloss.Color("#64748B"), // Medium gray
		Warning:    lipgloss.Color("#FACC15"), // Yellow
		Error:      lipgloss.Color("#F87171"), // Red
		Border:     lipgloss.Color("#334155"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	// Title style for headers.
	Title lipgloss.Style

	// Result style for result titles.
	Result lipgloss.Style

	// Selected style for the highlighted result.
	Selected lipgloss.Style

	// Muted style for descriptions and facet counts.
	Muted lipgloss.Style

	// Warning style for the degraded-results banner.
	Warning lipgloss.Style

	// Error style for validation messages.
	Error lipgloss.Style

	// InputField style for the search box.
	InputField lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() *Styles {
	theme := DefaultTheme()
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Result:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Warning:  lipgloss.NewStyle().Foreground(theme.Warning),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		InputField: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}
