// Package mcp provides an MCP (Model Context Protocol) server adapter for notesearch.
// It lets AI assistants run searches across the integrated services and read
// the recent-search history.
package mcp

import "errors"

var (
	// ErrMissingSessionFactory is returned when no session factory is provided.
	ErrMissingSessionFactory = errors.New("mcp: session factory is required")

	// ErrSearchInterrupted is returned when the caller goes away before the
	// search settles.
	ErrSearchInterrupted = errors.New("mcp: search interrupted")
)
