package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSession indicates that no search session was provided.
	ErrNoSession = errors.New("search session is required")

	// ErrNoActions indicates that result actions are not available.
	ErrNoActions = errors.New("result actions are not available")
)
