package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

func budgetResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Success:      true,
		Query:        "budget report",
		TotalResults: 3,
		Results: []domain.SearchResult{
			{
				Source:   domain.SourceTrello,
				Title:    "Budget card",
				URL:      "https://trello.com/c/1",
				Metadata: json.RawMessage(`{"boardName":"Finance"}`),
			},
			{
				Source:   domain.SourceGmail,
				Title:    "Re: budget &amp; report",
				Snippet:  "see the &quot;final&quot; numbers",
				URL:      "https://mail.google.com/1",
				Date:     "2024-03-14T09:00:00Z",
				Metadata: json.RawMessage(`{"from":"ana@example.com"}`),
			},
			{
				Source: domain.SourceGoogleDrive,
				Title:  "",
				URL:    "https://drive.google.com/1",
			},
		},
		Errors: []domain.ServiceError{{Source: domain.SourceOneDrive, Message: "token expired"}},
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)

	require.NotNil(t, searchCmd.Flags().Lookup("json"))
	require.NotNil(t, searchCmd.Flags().Lookup("source"))
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	SetSessionFactory(nil)

	_, err := execute(t, "search", "budget")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_BlankQuery(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "search", "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.transport.queries)
}

func TestSearchCmd_PrintsGroupedResults(t *testing.T) {
	ts := setupTestServices(t)
	ts.transport.resp = budgetResponse()

	out, err := execute(t, "search", "budget", "report")
	require.NoError(t, err)

	assert.Equal(t, []string{"budget report"}, ts.transport.queries)
	assert.Contains(t, out, `Found 3 results for "budget report"`)

	drive := strings.Index(out, "▲ Google Drive (1)")
	gmail := strings.Index(out, "✉ Gmail (1)")
	trello := strings.Index(out, "▦ Trello (1)")
	require.True(t, drive >= 0 && gmail >= 0 && trello >= 0, out)
	assert.Less(t, drive, gmail)
	assert.Less(t, gmail, trello)

	assert.Contains(t, out, "[1] (Untitled)")
	assert.Contains(t, out, "[2] Re: budget & report")
	assert.Contains(t, out, "from ana@example.com · Yesterday")
	assert.Contains(t, out, `see the "final" numbers`)
	assert.Contains(t, out, "[3] Budget card")
	assert.Contains(t, out, "Finance")

	assert.Contains(t, out, "Some services could not be searched:")
	assert.Contains(t, out, "OneDrive: token expired")
}

func TestSearchCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, `No results found for "nothing".`)
}

func TestSearchCmd_SourceFilter(t *testing.T) {
	ts := setupTestServices(t)
	ts.transport.resp = budgetResponse()

	out, err := execute(t, "search", "--source", "gmail", "budget")
	require.NoError(t, err)

	assert.Contains(t, out, "Gmail (1)")
	assert.NotContains(t, out, "Google Drive (1)")
	assert.NotContains(t, out, "Trello (1)")
}

func TestSearchCmd_UnknownSource(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "search", "--source", "dropbox", "budget")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.transport.queries)
}

func TestSearchCmd_TransportFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.transport.err = &domain.TransportError{StatusCode: 500}

	_, err := execute(t, "search", "budget")

	require.Error(t, err)
	assert.Equal(t, "search failed: 500 Internal Server Error", err.Error())
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestSearchCmd_ConfigurationFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.transport.err = &domain.ConfigurationError{Setting: "webhook.url", Hint: "set NOTESEARCH_WEBHOOK_URL"}

	_, err := execute(t, "search", "budget")

	require.Error(t, err)
	assert.Equal(t, "webhook.url is not set: set NOTESEARCH_WEBHOOK_URL", err.Error())
}

func TestSearchCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.transport.resp = budgetResponse()

	out, err := execute(t, "search", "--json", "--limit", "1", "budget")
	require.NoError(t, err)

	var got searchJSONOutput
	decodeJSON(t, out, &got)

	assert.Equal(t, "budget", got.Query)
	assert.Equal(t, 3, got.TotalResults)
	require.Len(t, got.Groups, 3)
	assert.Equal(t, domain.SourceGoogleDrive, got.Groups[0].Source)
	assert.Len(t, got.Groups[0].Results, 1)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, domain.SourceOneDrive, got.Errors[0].Source)
}

func TestSearchCmd_SavesRecent(t *testing.T) {
	ts := setupTestServices(t)
	ts.transport.resp = budgetResponse()

	_, err := execute(t, "search", "budget")
	require.NoError(t, err)

	list := ts.recent.List(t.Context())
	require.Len(t, list, 1)
	assert.Equal(t, "budget", list[0].Query)
	assert.Equal(t, 3, list[0].ResultCount)
}

func TestFilterGroups(t *testing.T) {
	groups := domain.GroupBySource(budgetResponse().Results)

	all := filterGroups(groups, "", 0)
	assert.Len(t, all, 3)

	gmail := filterGroups(groups, domain.SourceGmail, 0)
	require.Len(t, gmail, 1)
	assert.Equal(t, domain.SourceGmail, gmail[0].Source)

	none := filterGroups(groups, domain.SourceOneDrive, 0)
	assert.Empty(t, none)
}
