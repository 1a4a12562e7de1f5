// Package status provides the status bar shown at the bottom of the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// Bar displays the session state, a transient notice and key hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	spinner     spinner.Model
	state       domain.SessionState
	mode        keymap.Mode
	notice      string
	noticeErr   bool
	resultCount int
	user        string
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   domain.SessionIdle,
		mode:    keymap.ModeInput,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while a search is loading.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return s, nil
	}
	if s.state != domain.SessionLoading {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	if s.notice != "" {
		if s.noticeErr {
			return s.styles.Error.Render(s.notice)
		}
		return s.styles.Success.Render(s.notice)
	}

	var left string
	switch s.state {
	case domain.SessionLoading:
		left = s.spinner.View() + " " + s.styles.Muted.Render("Searching...")
	case domain.SessionFailed:
		left = s.styles.Error.Render("Search failed")
	case domain.SessionSuccess:
		left = s.styles.Normal.Render(domain.Pluralise(s.resultCount, "result"))
	default:
		left = s.styles.Muted.Render("Ready")
	}
	if s.user != "" {
		left = s.styles.Muted.Render(s.user) + "  " + left
	}
	return left
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp(s.mode)
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the session state shown on the left. Entering the loading
// state returns the command that starts the spinner.
func (s *Bar) SetState(state domain.SessionState) tea.Cmd {
	prev := s.state
	s.state = state
	if state == domain.SessionLoading && prev != domain.SessionLoading {
		return s.spinner.Tick
	}
	return nil
}

// State returns the current state.
func (s *Bar) State() domain.SessionState {
	return s.state
}

// SetMode selects which key hints are shown.
func (s *Bar) SetMode(mode keymap.Mode) {
	s.mode = mode
}

// Mode returns the current key hint mode.
func (s *Bar) Mode() keymap.Mode {
	return s.mode
}

// SetNotice shows a transient message in place of the state.
func (s *Bar) SetNotice(notice string, isErr bool) {
	s.notice = notice
	s.noticeErr = isErr
}

// Notice returns the transient message.
func (s *Bar) Notice() string {
	return s.notice
}

// ClearNotice removes the transient message.
func (s *Bar) ClearNotice() {
	s.notice = ""
	s.noticeErr = false
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetUser sets the signed-in identity shown on the left.
func (s *Bar) SetUser(user string) {
	s.user = user
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = domain.SessionIdle
	s.notice = ""
	s.noticeErr = false
	s.resultCount = 0
}
