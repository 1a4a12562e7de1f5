// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning is the amber used for partial-failure advisories.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Sources badges each integrated service.
	Sources map[domain.SearchSource]lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Background: lipgloss.Color("#1E1E2E"), // Dark gray
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F59E0B"), // Amber
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
		Sources: map[domain.SearchSource]lipgloss.Color{
			domain.SourceGoogleDrive:    lipgloss.Color("#34A853"),
			domain.SourceGmail:          lipgloss.Color("#EA4335"),
			domain.SourceGoogleCalendar: lipgloss.Color("#4285F4"),
			domain.SourceOneDrive:       lipgloss.Color("#0078D4"),
			domain.SourceTrello:         lipgloss.Color("#0079BF"),
		},
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// Advisory is the amber banner listing failed services.
	Advisory lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// Suggestion is an unhighlighted recent-search suggestion.
	Suggestion lipgloss.Style

	// GroupHeader is the heading of a source group.
	GroupHeader lipgloss.Style

	// Card is a result card.
	Card lipgloss.Style

	// SelectedCard is the result card under the keyboard selection.
	SelectedCard lipgloss.Style

	// Stats is the result count line.
	Stats lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(theme.Border).
		PaddingLeft(1).
		MarginBottom(1)

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Advisory: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Warning).
			Foreground(theme.Warning).
			Padding(0, 1),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Suggestion: lipgloss.NewStyle().
			Foreground(theme.Muted).
			PaddingLeft(2),

		GroupHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary).
			MarginBottom(1),

		Card: card,

		SelectedCard: card.
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary),

		Stats: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Badge returns the style for a source badge. Unknown sources use the
// muted colour.
func (s *Styles) Badge(src domain.SearchSource) lipgloss.Style {
	c, ok := s.theme.Sources[src]
	if !ok {
		c = s.theme.Muted
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}
