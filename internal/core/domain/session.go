package domain

import "time"

// SessionState is the lifecycle state of a search session.
type SessionState int

const (
	// SessionIdle means no query has been submitted yet.
	SessionIdle SessionState = iota
	// SessionLoading means a request is in flight.
	SessionLoading
	// SessionSuccess means the latest request produced a response.
	SessionSuccess
	// SessionFailed means the latest request failed.
	SessionFailed
)

// String returns the string representation of the state.
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionLoading:
		return "loading"
	case SessionSuccess:
		return "success"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NoSelection is the selected index meaning nothing is selected.
const NoSelection = -1

// SessionSnapshot is a point-in-time copy of a search session.
// Renderers work from snapshots so they never observe a half-applied update.
type SessionSnapshot struct {
	// ID identifies the session in logs.
	ID string

	// State is the lifecycle state.
	State SessionState

	// QueryText is the uncommitted input buffer.
	QueryText string

	// CommittedQuery is the query of the latest submit or recent selection.
	CommittedQuery string

	// Response is the current response, nil before the first success.
	Response *SearchResponse

	// ResponseQuery is the committed query Response was obtained for.
	ResponseQuery string

	// Err is the failure of the latest request when State is SessionFailed.
	Err error

	// Elapsed is the wall-clock duration of the request that produced Response.
	Elapsed time.Duration

	// HasElapsed reports whether Elapsed was measured.
	HasElapsed bool

	// SelectedIndex is the keyboard selection in FlatResults, or NoSelection.
	SelectedIndex int

	// Recent is the in-memory recent-search list.
	Recent []RecentSearch
}

// FlatResults returns the response results in their original order.
func (s SessionSnapshot) FlatResults() []SearchResult {
	if s.Response == nil {
		return []SearchResult{}
	}
	return s.Response.Results
}

// Groups returns the flat results grouped by source in display order.
func (s SessionSnapshot) Groups() []GroupedResults {
	return GroupBySource(s.FlatResults())
}

// Selected returns the selected result, or nil when nothing is selected.
func (s SessionSnapshot) Selected() *SearchResult {
	flat := s.FlatResults()
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(flat) {
		return nil
	}
	return &flat[s.SelectedIndex]
}

// HasSearched reports whether a response has been received.
func (s SessionSnapshot) HasSearched() bool {
	return s.Response != nil
}

// ShowsCommitted reports whether Response belongs to CommittedQuery.
func (s SessionSnapshot) ShowsCommitted() bool {
	return s.Response != nil && s.ResponseQuery == s.CommittedQuery
}

// ClampSelection clamps index into [NoSelection, count-1].
func ClampSelection(index, count int) int {
	if index > count-1 {
		index = count - 1
	}
	if index < NoSelection {
		index = NoSelection
	}
	return index
}
