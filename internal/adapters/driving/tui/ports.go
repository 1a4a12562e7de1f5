// Package tui provides the interactive terminal interface for notesearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the search session driven by the search view.
	Session driving.SearchSession

	// Recent is watched for changes made by other processes. Optional.
	Recent driving.RecentSearchService

	// ResultAction opens and copies results. Optional.
	ResultAction driving.ResultActionService

	// User is shown in the header when signed in.
	User domain.User
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	session driving.SearchSession,
	recent driving.RecentSearchService,
	resultAction driving.ResultActionService,
) *Ports {
	return &Ports{
		Session:      session,
		Recent:       recent,
		ResultAction: resultAction,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
