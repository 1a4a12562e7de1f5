package mcp

import (
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Sessions creates one search session per tool call.
	Sessions driving.SessionFactory

	// Recent exposes the recent-search history. Optional.
	Recent driving.RecentSearchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Sessions == nil {
		return ErrMissingSessionFactory
	}
	return nil
}
