package domain

import "strings"

// SearchSource identifies one of the external services aggregated by the
// search webhook. Values use the exact spelling of the webhook contract.
type SearchSource string

const (
	// SourceGoogleDrive is Google Drive files.
	SourceGoogleDrive SearchSource = "Google Drive"
	// SourceTrello is Trello cards.
	SourceTrello SearchSource = "Trello"
	// SourceGmail is Gmail messages.
	SourceGmail SearchSource = "Gmail"
	// SourceOneDrive is OneDrive files.
	SourceOneDrive SearchSource = "OneDrive"
	// SourceGoogleCalendar is Google Calendar events.
	SourceGoogleCalendar SearchSource = "Google Calendar"
)

// DisplayOrder is the fixed order in which source groups are presented.
var DisplayOrder = []SearchSource{
	SourceGoogleDrive,
	SourceGmail,
	SourceGoogleCalendar,
	SourceOneDrive,
	SourceTrello,
}

// AllSources returns a copy of the known sources in display order.
func AllSources() []SearchSource {
	out := make([]SearchSource, len(DisplayOrder))
	copy(out, DisplayOrder)
	return out
}

// ParseSearchSource resolves a source name case-insensitively.
// Returns false if the name does not match a known source.
func ParseSearchSource(name string) (SearchSource, bool) {
	name = strings.TrimSpace(name)
	for _, s := range DisplayOrder {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return SearchSource(name), false
}

// IsKnown reports whether s is one of the five integrated sources.
func (s SearchSource) IsKnown() bool {
	return s.Rank() >= 0
}

// Rank returns the position of s in DisplayOrder, or -1 if unknown.
func (s SearchSource) Rank() int {
	for i, known := range DisplayOrder {
		if known == s {
			return i
		}
	}
	return -1
}

// String returns the wire name of the source.
func (s SearchSource) String() string {
	return string(s)
}

// Icon returns a short glyph used to badge results of this source.
func (s SearchSource) Icon() string {
	switch s {
	case SourceGoogleDrive:
		return "▲"
	case SourceGmail:
		return "✉"
	case SourceGoogleCalendar:
		return "◷"
	case SourceOneDrive:
		return "☁"
	case SourceTrello:
		return "▦"
	default:
		return "•"
	}
}

// Anchor returns a slug of the source name suitable for identifiers.
// E.g. "Google Drive" becomes "Google-Drive".
func (s SearchSource) Anchor() string {
	return strings.Join(strings.Fields(string(s)), "-")
}
