package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependRecent_NewEntryAtFront(t *testing.T) {
	list := []RecentSearch{{Query: "old", Timestamp: 1, ResultCount: 2}}

	got := PrependRecent(list, RecentSearch{Query: "new", Timestamp: 2, ResultCount: 5})

	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Query)
	assert.Equal(t, "old", got[1].Query)
}

func TestPrependRecent_DeduplicatesIgnoringCase(t *testing.T) {
	list := []RecentSearch{
		{Query: "alpha", Timestamp: 3, ResultCount: 1},
		{Query: "Budget Report", Timestamp: 2, ResultCount: 4},
		{Query: "gamma", Timestamp: 1, ResultCount: 0},
	}

	got := PrependRecent(list, RecentSearch{Query: "budget report", Timestamp: 9, ResultCount: 7})

	require.Len(t, got, 3)
	assert.Equal(t, RecentSearch{Query: "budget report", Timestamp: 9, ResultCount: 7}, got[0])
	assert.Equal(t, "alpha", got[1].Query)
	assert.Equal(t, "gamma", got[2].Query)
}

func TestPrependRecent_Truncates(t *testing.T) {
	var list []RecentSearch
	for i := 0; i < 25; i++ {
		list = PrependRecent(list, RecentSearch{Query: fmt.Sprintf("q%d", i), Timestamp: int64(i)})
		require.LessOrEqual(t, len(list), MaxRecentSearches)
	}

	require.Len(t, list, MaxRecentSearches)
	assert.Equal(t, "q24", list[0].Query)
	assert.Equal(t, "q15", list[MaxRecentSearches-1].Query)
}

func TestPrependRecent_DoesNotModifyInput(t *testing.T) {
	list := []RecentSearch{{Query: "a"}, {Query: "b"}}

	_ = PrependRecent(list, RecentSearch{Query: "B"})

	assert.Equal(t, []RecentSearch{{Query: "a"}, {Query: "b"}}, list)
}

func TestFilterRecent(t *testing.T) {
	list := []RecentSearch{
		{Query: "Budget report"},
		{Query: "team offsite"},
		{Query: "budget 2025"},
	}

	assert.Equal(t, list, FilterRecent(list, ""))
	assert.Equal(t, list, FilterRecent(list, "   "))
	assert.Equal(t, []RecentSearch{{Query: "Budget report"}, {Query: "budget 2025"}}, FilterRecent(list, "BUDGET"))
	assert.Equal(t, []RecentSearch{{Query: "team offsite"}}, FilterRecent(list, " off "))
	assert.Empty(t, FilterRecent(list, "zzz"))
}

func TestRecentSearch_Time(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := RecentSearch{Timestamp: ts.UnixMilli()}

	assert.True(t, ts.Equal(r.Time()))
}

func TestSameQuery(t *testing.T) {
	assert.True(t, SameQuery("Budget", "bUDGET"))
	assert.False(t, SameQuery("budget", "budgets"))
}
