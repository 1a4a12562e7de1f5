// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// SearchSettled is sent when a submitted request has been applied or
// discarded by the session. Generation identifies the submit that
// produced it so stale spinners can be ignored.
type SearchSettled struct {
	Query      string
	Generation int
}

// RecentChanged is sent when the persisted recent-search list was
// modified outside this session.
type RecentChanged struct{}

// RecentWatchEnded is sent when the recent-search watch channel closes.
type RecentWatchEnded struct{}

// ActionKind identifies a result action.
type ActionKind int

const (
	// ActionOpen opens the result in the browser.
	ActionOpen ActionKind = iota
	// ActionCopy copies the result link to the clipboard.
	ActionCopy
)

// String returns the string representation of the action.
func (a ActionKind) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ActionCompleted carries the outcome of a result action.
type ActionCompleted struct {
	Action ActionKind
	Title  string
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
