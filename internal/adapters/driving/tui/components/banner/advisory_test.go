package banner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

func trelloDown() []domain.ServiceError {
	return []domain.ServiceError{{Source: domain.SourceTrello, Message: "rate limited"}}
}

func TestAdvisory_HiddenWithoutErrors(t *testing.T) {
	a := NewAdvisory(nil)

	assert.False(t, a.Visible())
	assert.Equal(t, "", a.View())

	a.SetErrors([]domain.ServiceError{})
	assert.False(t, a.Visible())
}

func TestAdvisory_ListsServices(t *testing.T) {
	a := NewAdvisory(nil)
	a.SetErrors([]domain.ServiceError{
		{Source: domain.SourceTrello, Message: "rate limited"},
		{Source: domain.SourceOneDrive},
		{Message: "boom"},
	})

	view := a.View()
	assert.True(t, a.Visible())
	assert.Contains(t, view, "Some services could not be searched (3)")
	assert.Contains(t, view, "Trello: rate limited")
	assert.Contains(t, view, "OneDrive")
	assert.Contains(t, view, "Unknown service: boom")
	assert.Contains(t, view, "press x to dismiss")
}

func TestAdvisory_Dismiss(t *testing.T) {
	a := NewAdvisory(nil)
	a.SetErrors(trelloDown())

	a.Dismiss()

	assert.False(t, a.Visible())
	assert.Equal(t, "", a.View())
}

func TestAdvisory_SameErrorsStayDismissed(t *testing.T) {
	a := NewAdvisory(nil)
	a.SetErrors(trelloDown())
	a.Dismiss()

	a.SetErrors(trelloDown())

	assert.False(t, a.Visible())
}

func TestAdvisory_NewErrorsReappear(t *testing.T) {
	a := NewAdvisory(nil)
	a.SetErrors(trelloDown())
	a.Dismiss()

	a.SetErrors([]domain.ServiceError{{Source: domain.SourceGmail, Message: "timeout"}})

	assert.True(t, a.Visible())
}
