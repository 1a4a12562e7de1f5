// Package banner renders the partial-failure advisory.
package banner

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// Advisory lists the services that failed while others returned results.
// Dismissal hides it until a different set of errors arrives.
type Advisory struct {
	styles    *styles.Styles
	errors    []domain.ServiceError
	dismissed bool
	width     int
}

// NewAdvisory creates an empty advisory.
func NewAdvisory(s *styles.Styles) *Advisory {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Advisory{styles: s, width: 80}
}

// SetErrors replaces the service errors. New errors undo a dismissal.
func (a *Advisory) SetErrors(errs []domain.ServiceError) {
	if !sameErrors(a.errors, errs) {
		a.dismissed = false
	}
	a.errors = errs
}

// Dismiss hides the advisory.
func (a *Advisory) Dismiss() {
	a.dismissed = true
}

// Visible reports whether View renders anything.
func (a *Advisory) Visible() bool {
	return len(a.errors) > 0 && !a.dismissed
}

// SetWidth sets the banner width.
func (a *Advisory) SetWidth(width int) {
	a.width = width
}

// View renders the advisory, or an empty string when hidden.
func (a *Advisory) View() string {
	if !a.Visible() {
		return ""
	}

	lines := make([]string, 0, len(a.errors)+1)
	lines = append(lines, fmt.Sprintf("⚠ Some services could not be searched (%d)", len(a.errors)))
	for _, e := range a.errors {
		name := e.Source.String()
		if name == "" {
			name = "Unknown service"
		}
		if e.Message == "" {
			lines = append(lines, "  "+name)
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", name, e.Message))
	}
	lines = append(lines, a.styles.Muted.Render("  press x to dismiss"))

	return a.styles.Advisory.Width(a.width - 2).Render(strings.Join(lines, "\n"))
}

func sameErrors(a, b []domain.ServiceError) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
