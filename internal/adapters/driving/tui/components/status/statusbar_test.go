package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notesearch/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, domain.SessionIdle, bar.State())
	assert.Equal(t, keymap.ModeInput, bar.Mode())
	assert.Equal(t, "", bar.Notice())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Nil(t, bar.Init())
}

func TestNewBar_NilArgs(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestBar_ViewPerState(t *testing.T) {
	tests := []struct {
		state domain.SessionState
		count int
		want  string
	}{
		{domain.SessionIdle, 0, "Ready"},
		{domain.SessionLoading, 0, "Searching..."},
		{domain.SessionFailed, 0, "Search failed"},
		{domain.SessionSuccess, 1, "1 result"},
		{domain.SessionSuccess, 3, "3 results"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetState(tt.state)
			bar.SetResultCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_SpinnerStartsOnceWhenLoading(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.SetState(domain.SessionLoading))
	assert.Nil(t, bar.SetState(domain.SessionLoading))
	assert.Nil(t, bar.SetState(domain.SessionSuccess))
}

func TestBar_SpinnerStopsWhenSettled(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(domain.SessionSuccess)

	_, cmd := bar.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)

	_, cmd = bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestBar_HintsFollowMode(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "enter: search")

	bar.SetMode(keymap.ModeResults)
	view := bar.View()
	assert.Contains(t, view, "y: copy link")
	assert.Contains(t, view, "/: search")
}

func TestBar_Notice(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetState(domain.SessionSuccess)
	bar.SetResultCount(3)

	bar.SetNotice("Link copied", false)
	view := bar.View()
	assert.Contains(t, view, "Link copied")
	assert.NotContains(t, view, "3 results")

	bar.ClearNotice()
	assert.Contains(t, bar.View(), "3 results")
}

func TestBar_User(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetUser("ana@example.com")

	assert.Contains(t, bar.View(), "ana@example.com")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(domain.SessionFailed)
	bar.SetNotice("oops", true)
	bar.SetResultCount(5)

	bar.Clear()

	assert.Equal(t, domain.SessionIdle, bar.State())
	assert.Equal(t, "", bar.Notice())
	assert.Equal(t, 0, bar.ResultCount())
}

func TestBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
