package driving

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// SearchSession is one user's search session: the input buffer, the
// committed query, the current response and the keyboard selection.
type SearchSession interface {
	// ID identifies the session in logs.
	ID() string

	// SetQueryText updates the uncommitted input buffer.
	SetQueryText(text string)

	// QueryText returns the uncommitted input buffer.
	QueryText() string

	// Submit commits the trimmed buffer and starts a search.
	// Returns false without doing anything if the trimmed buffer is empty.
	// The channel is closed once the request has been applied or discarded.
	Submit(ctx context.Context) (<-chan struct{}, bool)

	// SelectRecent sets the buffer and committed query to query and resets
	// the selection. It does not submit.
	SelectRecent(query string)

	// MoveSelection moves the selection by delta and returns the new index,
	// clamped to [-1, len(FlatResults())-1].
	MoveSelection(delta int) int

	// SelectNone clears the selection.
	SelectNone()

	// SelectedIndex returns the selection, or domain.NoSelection.
	SelectedIndex() int

	// FlatResults returns the current results in response order.
	FlatResults() []domain.SearchResult

	// Snapshot returns a point-in-time copy of the session.
	Snapshot() domain.SessionSnapshot

	// RecentSearches returns the in-memory recent-search list.
	RecentSearches() []domain.RecentSearch

	// ReloadRecent refreshes the in-memory recent list from the store.
	ReloadRecent(ctx context.Context)

	// ClearRecent clears the persisted and in-memory recent lists.
	ClearRecent(ctx context.Context)

	// Close cancels any in-flight request and waits for it to settle.
	Close()
}

// SessionFactory creates search sessions that share a transport, a
// recent-search store and a response cache.
type SessionFactory interface {
	NewSession() SearchSession
}
