package driven

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// SearchTransport sends a query to the search endpoint.
// Backed by the n8n webhook, optionally wrapped in a retry policy.
type SearchTransport interface {
	// Search performs one search and returns the decoded response.
	//
	// Errors are *domain.ConfigurationError when no endpoint is configured,
	// *domain.TransportError for network failures and non-2xx statuses, and
	// *domain.DecodeError when the body does not match the response shape.
	Search(ctx context.Context, query string) (*domain.SearchResponse, error)
}
