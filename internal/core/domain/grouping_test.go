package domain

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(source SearchSource, title string) SearchResult {
	return SearchResult{Source: source, Title: title, URL: "https://example.com/" + title}
}

func TestGroupBySource_BudgetReport(t *testing.T) {
	results := []SearchResult{
		result(SourceGmail, "mail"),
		result(SourceGoogleDrive, "sheet"),
		result(SourceGoogleDrive, "doc"),
	}

	got := GroupBySource(results)

	want := []GroupedResults{
		{
			Source:    SourceGoogleDrive,
			Results:   []SearchResult{results[1], results[2]},
			Positions: []int{1, 2},
		},
		{
			Source:    SourceGmail,
			Results:   []SearchResult{results[0]},
			Positions: []int{0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupBySource() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, got[0].Count())
	assert.Equal(t, 1, got[1].Count())
}

func TestGroupBySource_Empty(t *testing.T) {
	got := GroupBySource(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGroupBySource_DropsUnknownSources(t *testing.T) {
	results := []SearchResult{
		result("Dropbox", "box"),
		result(SourceTrello, "card"),
		result("", "blank"),
	}

	got := GroupBySource(results)

	require.Len(t, got, 1)
	assert.Equal(t, SourceTrello, got[0].Source)
	assert.Equal(t, []int{1}, got[0].Positions)
	assert.Equal(t, 2, DroppedCount(results))
}

func TestGroupBySource_PreservesRelativeOrder(t *testing.T) {
	results := []SearchResult{
		result(SourceTrello, "t1"),
		result(SourceGmail, "g1"),
		result(SourceTrello, "t2"),
		result(SourceGmail, "g2"),
		result(SourceTrello, "t3"),
	}

	got := GroupBySource(results)

	require.Len(t, got, 2)
	assert.Equal(t, SourceGmail, got[0].Source)
	assert.Equal(t, []string{"g1", "g2"}, titles(got[0].Results))
	assert.Equal(t, SourceTrello, got[1].Source)
	assert.Equal(t, []string{"t1", "t2", "t3"}, titles(got[1].Results))
	assert.Equal(t, []int{0, 2, 4}, got[1].Positions)
}

// Group order follows DisplayOrder for any input permutation, every group
// is non-empty and positions point back at the grouped result.
func TestGroupBySource_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := append(AllSources(), "Dropbox")

	for iter := 0; iter < 200; iter++ {
		n := rng.Intn(20)
		results := make([]SearchResult, n)
		for i := range results {
			results[i] = result(pool[rng.Intn(len(pool))], string(rune('a'+i)))
		}

		groups := GroupBySource(results)

		lastRank := -1
		total := 0
		for _, g := range groups {
			require.True(t, g.Source.IsKnown())
			require.Greater(t, g.Source.Rank(), lastRank)
			require.NotEmpty(t, g.Results)
			require.Len(t, g.Positions, len(g.Results))
			for i, pos := range g.Positions {
				require.Equal(t, results[pos], g.Results[i])
				require.True(t, g.Contains(pos))
			}
			lastRank = g.Source.Rank()
			total += g.Count()
		}
		require.Equal(t, n-DroppedCount(results), total)
	}
}

func TestGroupedResults_Contains(t *testing.T) {
	g := GroupedResults{Positions: []int{3, 5}}
	assert.True(t, g.Contains(3))
	assert.True(t, g.Contains(5))
	assert.False(t, g.Contains(4))
}

func titles(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}
