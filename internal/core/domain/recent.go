package domain

import (
	"strings"
	"time"
)

// MaxRecentSearches bounds the persisted recent-search list.
const MaxRecentSearches = 10

// RecentSearch is one entry of the recent-search list.
type RecentSearch struct {
	// Query is the committed query text.
	Query string `json:"query"`

	// Timestamp is when the search completed, in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// ResultCount is the total result count reported for the search.
	ResultCount int `json:"resultCount"`
}

// Time returns the entry timestamp as a time.Time.
func (r RecentSearch) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// SameQuery reports whether two queries are equal ignoring case.
func SameQuery(a, b string) bool {
	return strings.EqualFold(a, b)
}

// PrependRecent returns list with entry at the front, any case-insensitive
// duplicate of entry removed, truncated to MaxRecentSearches.
// The input slice is not modified.
func PrependRecent(list []RecentSearch, entry RecentSearch) []RecentSearch {
	out := make([]RecentSearch, 0, len(list)+1)
	out = append(out, entry)
	for _, r := range list {
		if SameQuery(r.Query, entry.Query) {
			continue
		}
		out = append(out, r)
	}
	if len(out) > MaxRecentSearches {
		out = out[:MaxRecentSearches]
	}
	return out
}

// FilterRecent returns the entries whose query contains text, ignoring case.
// An empty or blank text returns the whole list.
func FilterRecent(list []RecentSearch, text string) []RecentSearch {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return list
	}
	out := make([]RecentSearch, 0, len(list))
	for _, r := range list {
		if strings.Contains(strings.ToLower(r.Query), needle) {
			out = append(out, r)
		}
	}
	return out
}
