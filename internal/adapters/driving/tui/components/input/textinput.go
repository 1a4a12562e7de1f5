// Package input provides the search box and its recent-search suggestions.
package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// Placeholder is shown in the empty search box.
const Placeholder = "Search your notes..."

// MaxSuggestions bounds how many recent searches are listed under the box.
const MaxSuggestions = 5

// SearchInput wraps a bubbles textinput with recent-search suggestions.
// Suggestions are the recent list filtered by the current text and are
// only shown while the input is focused.
type SearchInput struct {
	textinput   textinput.Model
	styles      *styles.Styles
	width       int
	recent      []domain.RecentSearch
	suggestions []domain.RecentSearch
	highlighted int
}

// NewSearchInput creates a new search input component.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Prompt = "⌕ "
	ti.Width = 50

	return &SearchInput{
		textinput:   ti,
		styles:      s,
		width:       50,
		highlighted: -1,
	}
}

// Init initialises the search input.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Text edits refilter the suggestions.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	before := s.textinput.Value()
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	if s.textinput.Value() != before {
		s.refilter()
	}
	return s, cmd
}

// View renders the search input and, when focused, its suggestions.
func (s *SearchInput) View() string {
	box := s.styles.InputField.Width(s.width - 2).Render(s.textinput.View())
	if !s.textinput.Focused() || len(s.suggestions) == 0 {
		return box
	}

	lines := []string{s.styles.Muted.Render("  Recent searches")}
	for i, r := range s.visibleSuggestions() {
		text := fmt.Sprintf("%s  %s", r.Query, domain.Pluralise(r.ResultCount, "result"))
		if i == s.highlighted {
			lines = append(lines, s.styles.Selected.Render("› "+text))
			continue
		}
		lines = append(lines, s.styles.Suggestion.Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, strings.Join(lines, "\n"))
}

func (s *SearchInput) visibleSuggestions() []domain.RecentSearch {
	if len(s.suggestions) > MaxSuggestions {
		return s.suggestions[:MaxSuggestions]
	}
	return s.suggestions
}

func (s *SearchInput) refilter() {
	s.suggestions = domain.FilterRecent(s.recent, s.textinput.Value())
	s.highlighted = -1
}

// SetRecent replaces the recent list suggestions are drawn from.
func (s *SearchInput) SetRecent(recent []domain.RecentSearch) {
	s.recent = recent
	s.refilter()
}

// Suggestions returns the visible suggestions.
func (s *SearchInput) Suggestions() []domain.RecentSearch {
	return s.visibleSuggestions()
}

// NextSuggestion highlights the next suggestion, wrapping to the first.
func (s *SearchInput) NextSuggestion() {
	n := len(s.visibleSuggestions())
	if n == 0 {
		return
	}
	s.highlighted = (s.highlighted + 1) % n
}

// PrevSuggestion highlights the previous suggestion, wrapping to the last.
func (s *SearchInput) PrevSuggestion() {
	n := len(s.visibleSuggestions())
	if n == 0 {
		return
	}
	if s.highlighted <= 0 {
		s.highlighted = n - 1
		return
	}
	s.highlighted--
}

// Highlighted returns the highlighted suggestion, if any.
func (s *SearchInput) Highlighted() (domain.RecentSearch, bool) {
	visible := s.visibleSuggestions()
	if s.highlighted < 0 || s.highlighted >= len(visible) {
		return domain.RecentSearch{}, false
	}
	return visible[s.highlighted], true
}

// ClearHighlight removes the suggestion highlight.
func (s *SearchInput) ClearHighlight() {
	s.highlighted = -1
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
	s.textinput.CursorEnd()
	s.refilter()
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
	s.highlighted = -1
}

// SetCursorMode switches the cursor between blinking, static and hidden.
func (s *SearchInput) SetCursorMode(mode cursor.Mode) tea.Cmd {
	return s.textinput.Cursor.SetMode(mode)
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Height returns the number of lines View renders.
func (s *SearchInput) Height() int {
	return lipgloss.Height(s.View())
}

// Reset clears the input.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
	s.refilter()
}
