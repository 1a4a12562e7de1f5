package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/services"
)

// stubTransport implements driven.SearchTransport for testing.
type stubTransport struct {
	mu      sync.Mutex
	resp    *domain.SearchResponse
	err     error
	block   bool
	queries []string
}

func (s *stubTransport) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	resp, err, block := s.resp, s.err, s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, &domain.TransportError{Err: ctx.Err()}
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &domain.SearchResponse{Success: true, Query: query}, nil
	}
	return resp.Clone(), nil
}

func (s *stubTransport) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func newTestServer(t *testing.T, transport *stubTransport) (*Server, *services.RecentSearchService) {
	t.Helper()
	recent := services.NewRecentSearchService(memory.NewKVStore())
	factory := services.NewSessionFactory(transport, recent, nil)

	server, err := NewServer(&Ports{Sessions: factory, Recent: recent})
	require.NoError(t, err)
	return server, recent
}

func sampleResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Success:      true,
		Query:        "budget",
		TotalResults: 4,
		Results: []domain.SearchResult{
			{
				Source:    domain.SourceTrello,
				Title:     "Budget review",
				URL:       "https://trello.com/c/abc",
				Relevance: 0.4,
				Metadata:  json.RawMessage(`{"boardName":"Finance","listName":"Doing"}`),
			},
			{
				Source:    domain.SourceGoogleDrive,
				Title:     "Q3 Budget &amp; Forecast",
				Snippet:   "Budget for &quot;Q3&quot;",
				URL:       "https://drive.google.com/file/d/1",
				Date:      "2024-03-14T09:00:00Z",
				Relevance: 0.9,
				Metadata:  json.RawMessage(`{"fileType":"spreadsheet"}`),
			},
			{
				Source: domain.SourceGoogleDrive,
				Title:  "Budget notes",
				URL:    "https://drive.google.com/file/d/2",
			},
			{
				Source: domain.SourceGmail,
				Title:  "Re: budget",
				URL:    "https://mail.google.com/mail/u/0/#inbox/1",
			},
		},
		Errors: []domain.ServiceError{
			{Source: domain.SourceOneDrive, Message: "token expired"},
		},
		HasErrors: true,
	}
}
