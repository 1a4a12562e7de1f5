package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("groups results in display order", func(t *testing.T) {
		transport := &stubTransport{resp: sampleResponse()}
		server, _ := newTestServer(t, transport)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "  budget  "})
		require.NoError(t, err)

		assert.Equal(t, []string{"budget"}, transport.calls())
		assert.NotEmpty(t, output.SessionID)
		assert.Equal(t, "budget", output.Query)
		assert.Equal(t, 4, output.TotalResults)

		require.Len(t, output.Groups, 3)
		assert.Equal(t, "Google Drive", output.Groups[0].Source)
		assert.Equal(t, "Gmail", output.Groups[1].Source)
		assert.Equal(t, "Trello", output.Groups[2].Source)
		assert.Equal(t, 2, output.Groups[0].Count)

		first := output.Groups[0].Results[0]
		assert.Equal(t, "Q3 Budget & Forecast", first.Title)
		assert.Equal(t, `Budget for "Q3"`, first.Snippet)
		assert.Equal(t, "spreadsheet", first.Details)
		assert.Equal(t, 0.9, first.Relevance)
		assert.Equal(t, "Finance › Doing", output.Groups[2].Results[0].Details)

		require.Len(t, output.Errors, 1)
		assert.Equal(t, ServiceErrorOutput{Source: "OneDrive", Message: "token expired"}, output.Errors[0])
	})

	t.Run("filters by source", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{resp: sampleResponse()})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget", Source: "gmail"})
		require.NoError(t, err)
		require.Len(t, output.Groups, 1)
		assert.Equal(t, "Gmail", output.Groups[0].Source)
	})

	t.Run("accepts source anchors", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{resp: sampleResponse()})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget", Source: "Google-Drive"})
		require.NoError(t, err)
		require.Len(t, output.Groups, 1)
		assert.Equal(t, "Google Drive", output.Groups[0].Source)
	})

	t.Run("limit caps results per source but keeps the count", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{resp: sampleResponse()})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, output.Groups[0].Results, 1)
		assert.Equal(t, 2, output.Groups[0].Count)
	})

	t.Run("unknown source is rejected before searching", func(t *testing.T) {
		transport := &stubTransport{}
		server, _ := newTestServer(t, transport)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget", Source: "Dropbox"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, transport.calls())
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		transport := &stubTransport{}
		server, _ := newTestServer(t, transport)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "   "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, transport.calls())
	})

	t.Run("empty response has no groups", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "nothing"})
		require.NoError(t, err)
		assert.Equal(t, 0, output.TotalResults)
		assert.Empty(t, output.Groups)
		assert.NotNil(t, output.Groups)
		assert.Empty(t, output.Errors)
	})

	t.Run("configuration error uses the user message", func(t *testing.T) {
		transport := &stubTransport{err: &domain.ConfigurationError{
			Setting: "webhook URL",
			Hint:    "set NOTESEARCH_WEBHOOK_URL",
		}}
		server, _ := newTestServer(t, transport)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget"})
		require.Error(t, err)
		assert.Equal(t, "webhook URL is not set: set NOTESEARCH_WEBHOOK_URL", err.Error())
	})

	t.Run("decode error uses the user message", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{err: &domain.DecodeError{}})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected response")
	})

	t.Run("cancelled caller stops waiting", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{block: true})

		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, _, err := server.handleSearch(cctx, nil, SearchInput{Query: "budget"})
		assert.Error(t, err)
	})

	t.Run("successful search is recorded as recent", func(t *testing.T) {
		server, recent := newTestServer(t, &stubTransport{resp: sampleResponse()})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget"})
		require.NoError(t, err)

		list := recent.List(ctx)
		require.Len(t, list, 1)
		assert.Equal(t, "budget", list[0].Query)
		assert.Equal(t, 4, list[0].ResultCount)
	})
}

func TestServer_handleRecent(t *testing.T) {
	ctx := context.Background()

	t.Run("lists newest first", func(t *testing.T) {
		server, recent := newTestServer(t, &stubTransport{})
		recent.Save(ctx, "first", 1)
		recent.Save(ctx, "second", 2)

		_, output, err := server.handleRecent(ctx, nil, RecentInput{})
		require.NoError(t, err)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, "second", output.Searches[0].Query)
		assert.Equal(t, 2, output.Searches[0].ResultCount)
		assert.NotEmpty(t, output.Searches[0].SearchedAt)
	})

	t.Run("limit trims the list", func(t *testing.T) {
		server, recent := newTestServer(t, &stubTransport{})
		recent.Save(ctx, "first", 1)
		recent.Save(ctx, "second", 2)

		_, output, err := server.handleRecent(ctx, nil, RecentInput{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "second", output.Searches[0].Query)
	})

	t.Run("missing recent service returns empty list", func(t *testing.T) {
		server, _ := newTestServer(t, &stubTransport{})
		server.ports.Recent = nil

		_, output, err := server.handleRecent(ctx, nil, RecentInput{})
		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Searches)
	})
}

func TestBuildSearchOutput_NoResponse(t *testing.T) {
	snap := domain.SessionSnapshot{ID: "abc", CommittedQuery: "q", Elapsed: 1500 * time.Millisecond, HasElapsed: true}

	out := buildSearchOutput(snap, "", 0)

	assert.Equal(t, "abc", out.SessionID)
	assert.Equal(t, "q", out.Query)
	assert.Equal(t, int64(1500), out.ElapsedMS)
	assert.Empty(t, out.Groups)
}
