package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayOrder(t *testing.T) {
	assert.Equal(t, []SearchSource{
		SourceGoogleDrive,
		SourceGmail,
		SourceGoogleCalendar,
		SourceOneDrive,
		SourceTrello,
	}, DisplayOrder)
}

func TestAllSources_ReturnsCopy(t *testing.T) {
	sources := AllSources()
	sources[0] = "Dropbox"

	assert.Equal(t, SourceGoogleDrive, DisplayOrder[0])
}

func TestSearchSource_WireNames(t *testing.T) {
	assert.Equal(t, "Google Drive", SourceGoogleDrive.String())
	assert.Equal(t, "Trello", SourceTrello.String())
	assert.Equal(t, "Gmail", SourceGmail.String())
	assert.Equal(t, "OneDrive", SourceOneDrive.String())
	assert.Equal(t, "Google Calendar", SourceGoogleCalendar.String())
}

func TestSearchSource_Rank(t *testing.T) {
	tests := []struct {
		source SearchSource
		want   int
	}{
		{SourceGoogleDrive, 0},
		{SourceGmail, 1},
		{SourceGoogleCalendar, 2},
		{SourceOneDrive, 3},
		{SourceTrello, 4},
		{"Dropbox", -1},
		{"", -1},
		{"google drive", -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.source.Rank())
			assert.Equal(t, tt.want >= 0, tt.source.IsKnown())
		})
	}
}

func TestParseSearchSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   SearchSource
		wantOK bool
	}{
		{"exact", "Gmail", SourceGmail, true},
		{"lower case", "google calendar", SourceGoogleCalendar, true},
		{"padded", "  OneDrive ", SourceOneDrive, true},
		{"unknown", "Dropbox", "Dropbox", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSearchSource(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchSource_Icon(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range DisplayOrder {
		icon := s.Icon()
		assert.NotEmpty(t, icon)
		assert.False(t, seen[icon], "icon %q reused", icon)
		seen[icon] = true
	}
	assert.Equal(t, "•", SearchSource("Dropbox").Icon())
}

func TestSearchSource_Anchor(t *testing.T) {
	assert.Equal(t, "Google-Drive", SourceGoogleDrive.Anchor())
	assert.Equal(t, "Google-Calendar", SourceGoogleCalendar.Anchor())
	assert.Equal(t, "Trello", SourceTrello.Anchor())
}
