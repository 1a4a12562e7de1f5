package driving

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// RecentSearchService manages the bounded recent-search list.
// It never reports persistence failures.
type RecentSearchService interface {
	// List returns the persisted list, newest first, or an empty list if
	// nothing usable is stored.
	List(ctx context.Context) []domain.RecentSearch

	// Save records a completed search. Blank queries are ignored.
	Save(ctx context.Context, query string, resultCount int)

	// Clear removes all entries.
	Clear(ctx context.Context)

	// Changes returns a channel signalled when another process modifies the
	// list. The channel is nil when the backing store cannot be watched, and
	// closed when ctx is done.
	Changes(ctx context.Context) (<-chan struct{}, error)
}
