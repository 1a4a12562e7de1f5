package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query to run across the integrated services"`
	Source string `json:"source,omitempty" jsonschema:"restrict the output to one source: Google Drive, Gmail, Google Calendar, OneDrive or Trello"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results per source (default: all)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	SessionID    string               `json:"session_id"`
	Query        string               `json:"query"`
	TotalResults int                  `json:"total_results"`
	ElapsedMS    int64                `json:"elapsed_ms"`
	Groups       []GroupOutput        `json:"groups"`
	Errors       []ServiceErrorOutput `json:"errors,omitempty"`
}

// GroupOutput is the results of one source.
type GroupOutput struct {
	Source  string               `json:"source"`
	Count   int                  `json:"count"`
	Results []SearchResultOutput `json:"results"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet,omitempty"`
	URL       string  `json:"url"`
	Date      string  `json:"date,omitempty"`
	Relevance float64 `json:"relevance"`
	Details   string  `json:"details,omitempty"`
}

// ServiceErrorOutput reports a service that could not be searched.
type ServiceErrorOutput struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// RecentInput is the input schema for the recent_searches tool.
type RecentInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default: all)"`
}

// RecentOutput is the output schema for the recent_searches tool.
type RecentOutput struct {
	Searches []RecentSearchOutput `json:"searches"`
	Count    int                  `json:"count"`
}

// RecentSearchOutput is one recent-search entry.
type RecentSearchOutput struct {
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
	SearchedAt  string `json:"searched_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search Google Drive, Trello, Gmail, OneDrive and Google Calendar at once",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recent_searches",
		Description: "List recently completed searches, newest first",
	}, s.handleRecent)
}

// handleSearch runs one search in a fresh session and waits for it to settle.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	var filter domain.SearchSource
	if input.Source != "" {
		src, ok := domain.ParseSearchSource(strings.ReplaceAll(input.Source, "-", " "))
		if !ok {
			return nil, SearchOutput{}, fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, input.Source)
		}
		filter = src
	}

	session := s.ports.Sessions.NewSession()
	defer session.Close()

	session.SetQueryText(input.Query)
	done, ok := session.Submit(ctx)
	if !ok {
		return nil, SearchOutput{}, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, SearchOutput{}, fmt.Errorf("%w: %w", ErrSearchInterrupted, ctx.Err())
	}

	snap := session.Snapshot()
	if snap.State == domain.SessionFailed {
		logger.Warn("mcp: search %q failed: %v", snap.CommittedQuery, snap.Err)
		return nil, SearchOutput{}, errors.New(domain.UserMessage(snap.Err))
	}

	return nil, buildSearchOutput(snap, filter, input.Limit), nil
}

// buildSearchOutput shapes a settled snapshot for the tool result.
// An empty filter keeps every source and a non-positive limit keeps every result.
func buildSearchOutput(snap domain.SessionSnapshot, filter domain.SearchSource, limit int) SearchOutput {
	out := SearchOutput{
		SessionID: snap.ID,
		Query:     snap.CommittedQuery,
		Groups:    []GroupOutput{},
	}
	if snap.HasElapsed {
		out.ElapsedMS = snap.Elapsed.Milliseconds()
	}

	resp := snap.Response
	if resp == nil {
		return out
	}
	if q := strings.TrimSpace(resp.Query); q != "" {
		out.Query = q
	}
	out.TotalResults = resp.TotalResults

	for _, g := range snap.Groups() {
		if filter != "" && g.Source != filter {
			continue
		}
		results := g.Results
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
		group := GroupOutput{
			Source:  string(g.Source),
			Count:   g.Count(),
			Results: make([]SearchResultOutput, len(results)),
		}
		for i := range results {
			group.Results[i] = SearchResultOutput{
				Title:     domain.DecodeEntities(results[i].Title),
				Snippet:   domain.SnippetText(results[i].Snippet),
				URL:       results[i].URL,
				Date:      results[i].Date,
				Relevance: results[i].Relevance,
				Details:   results[i].MetadataSummary(),
			}
		}
		out.Groups = append(out.Groups, group)
	}

	for _, e := range resp.ServiceErrors() {
		out.Errors = append(out.Errors, ServiceErrorOutput{
			Source:  string(e.Source),
			Message: e.Message,
		})
	}

	return out
}

// handleRecent lists the persisted recent searches.
func (s *Server) handleRecent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecentInput,
) (*mcp.CallToolResult, RecentOutput, error) {
	entries := s.recentSearches(ctx)
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}
	return nil, RecentOutput{Searches: entries, Count: len(entries)}, nil
}

func (s *Server) recentSearches(ctx context.Context) []RecentSearchOutput {
	out := []RecentSearchOutput{}
	if s.ports.Recent == nil {
		return out
	}
	for _, r := range s.ports.Recent.List(ctx) {
		out = append(out, RecentSearchOutput{
			Query:       r.Query,
			ResultCount: r.ResultCount,
			SearchedAt:  r.Time().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}
