package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

var (
	searchJSON   bool
	searchSource string
	searchLimit  int

	// now is the clock used for relative dates.
	now = time.Now
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all integrated services",
	Long: `Sends the query to the search workflow and prints the results grouped by
service, in the order Google Drive, Gmail, Google Calendar, OneDrive, Trello.

Services that could not be searched are listed after the results.`,
	Args:        cobra.MinimumNArgs(1),
	RunE:        runSearch,
	Annotations: map[string]string{annotationAuth: "required"},
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchSource, "source", "s", "", "only show results from one service")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results per service (0 = all)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if sessionFactory == nil {
		return errors.New("search service not configured")
	}

	var filter domain.SearchSource
	if searchSource != "" {
		src, ok := domain.ParseSearchSource(strings.ReplaceAll(searchSource, "-", " "))
		if !ok {
			return fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, searchSource)
		}
		filter = src
	}

	session := sessionFactory.NewSession()
	defer session.Close()

	session.SetQueryText(strings.Join(args, " "))
	done, ok := session.Submit(cmd.Context())
	if !ok {
		return fmt.Errorf("%w: query must not be empty", domain.ErrInvalidInput)
	}

	select {
	case <-done:
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	snap := session.Snapshot()
	if snap.State == domain.SessionFailed {
		return displayError(snap.Err)
	}

	groups := filterGroups(snap.Groups(), filter, searchLimit)
	if searchJSON {
		return outputSearchJSON(cmd, snap, groups)
	}
	return outputSearchText(cmd, snap, groups)
}

// filterGroups keeps the groups of filter, or all groups when filter is
// empty, and caps each group at limit results when limit is positive.
func filterGroups(groups []domain.GroupedResults, filter domain.SearchSource, limit int) []domain.GroupedResults {
	out := make([]domain.GroupedResults, 0, len(groups))
	for _, g := range groups {
		if filter != "" && g.Source != filter {
			continue
		}
		if limit > 0 && len(g.Results) > limit {
			g.Results = g.Results[:limit]
			g.Positions = g.Positions[:limit]
		}
		out = append(out, g)
	}
	return out
}

type searchGroupJSON struct {
	Source  domain.SearchSource   `json:"source"`
	Count   int                   `json:"count"`
	Results []domain.SearchResult `json:"results"`
}

type searchJSONOutput struct {
	Query        string                `json:"query"`
	TotalResults int                   `json:"totalResults"`
	ElapsedMs    int64                 `json:"elapsedMs"`
	Groups       []searchGroupJSON     `json:"groups"`
	Errors       []domain.ServiceError `json:"errors"`
}

func outputSearchJSON(cmd *cobra.Command, snap domain.SessionSnapshot, groups []domain.GroupedResults) error {
	out := searchJSONOutput{
		Query:  snap.CommittedQuery,
		Groups: make([]searchGroupJSON, 0, len(groups)),
		Errors: []domain.ServiceError{},
	}
	if snap.HasElapsed {
		out.ElapsedMs = snap.Elapsed.Milliseconds()
	}
	if resp := snap.Response; resp != nil {
		out.TotalResults = resp.TotalResults
		out.Errors = append(out.Errors, resp.ServiceErrors()...)
	}
	for _, g := range groups {
		out.Groups = append(out.Groups, searchGroupJSON{
			Source:  g.Source,
			Count:   g.Count(),
			Results: g.Results,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, snap domain.SessionSnapshot, groups []domain.GroupedResults) error {
	resp := snap.Response
	query := snap.CommittedQuery
	if resp != nil && strings.TrimSpace(resp.Query) != "" {
		query = resp.Query
	}

	if resp.IsEmpty() || len(groups) == 0 {
		cmd.Printf("No results found for %q.\n", query)
	} else {
		cmd.Printf("Found %s for %q", domain.Pluralise(resp.TotalResults, "result"), query)
		if snap.HasElapsed {
			cmd.Printf(" (%.2fs)", snap.Elapsed.Seconds())
		}
		cmd.Println()

		t := now()
		n := 0
		for _, g := range groups {
			cmd.Println()
			cmd.Printf("%s %s (%d)\n", g.Source.Icon(), g.Source, g.Count())
			for i := range g.Results {
				n++
				printResult(cmd, n, &g.Results[i], t)
			}
		}
	}

	if resp != nil && resp.IsPartial() {
		cmd.Println()
		cmd.Println("Some services could not be searched:")
		for _, e := range resp.ServiceErrors() {
			name := string(e.Source)
			if name == "" {
				name = "Unknown service"
			}
			cmd.Printf("  %s: %s\n", name, e.Message)
		}
	}
	return nil
}

func printResult(cmd *cobra.Command, n int, r *domain.SearchResult, t time.Time) {
	title := domain.DecodeEntities(r.Title)
	if strings.TrimSpace(title) == "" {
		title = "(Untitled)"
	}
	cmd.Printf("  [%d] %s\n", n, title)

	var meta []string
	if s := r.MetadataSummary(); s != "" {
		meta = append(meta, s)
	}
	if d := domain.RelativeDate(r.Date, t); d != "" {
		meta = append(meta, d)
	}
	if len(meta) > 0 {
		cmd.Printf("      %s\n", strings.Join(meta, " · "))
	}
	if snippet := domain.SnippetText(r.Snippet); snippet != "" {
		cmd.Printf("      %s\n", snippet)
	}
	if r.URL != "" {
		cmd.Printf("      %s\n", r.URL)
	}
}
