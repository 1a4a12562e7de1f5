package driving

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// ResultActionService provides actions on search results for external actors.
// This is used by TUI and CLI adapters.
type ResultActionService interface {
	// CopyLink copies the result's URL to the system clipboard.
	CopyLink(ctx context.Context, result *domain.SearchResult) error

	// OpenResult opens the result's URL in the default browser.
	OpenResult(ctx context.Context, result *domain.SearchResult) error
}
