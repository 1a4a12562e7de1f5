package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

func newTestActions() (*ResultActionService, *[]string, *[]string) {
	var opened, copied []string
	svc := NewResultActionService()
	svc.openURL = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	svc.clipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	return svc, &opened, &copied
}

func TestResultActionService_OpenResult(t *testing.T) {
	svc, opened, _ := newTestActions()
	result := &domain.SearchResult{Source: domain.SourceTrello, URL: " https://trello.com/c/abc "}

	require.NoError(t, svc.OpenResult(context.Background(), result))
	assert.Equal(t, []string{"https://trello.com/c/abc"}, *opened)
}

func TestResultActionService_CopyLink(t *testing.T) {
	svc, _, copied := newTestActions()
	result := &domain.SearchResult{URL: "https://drive.google.com/file/d/1"}

	require.NoError(t, svc.CopyLink(context.Background(), result))
	assert.Equal(t, []string{"https://drive.google.com/file/d/1"}, *copied)
}

func TestResultActionService_RejectsBadLinks(t *testing.T) {
	svc, opened, copied := newTestActions()

	for _, r := range []*domain.SearchResult{
		nil,
		{URL: ""},
		{URL: "javascript:alert(1)"},
		{URL: "file:///etc/passwd"},
	} {
		assert.ErrorIs(t, svc.OpenResult(context.Background(), r), domain.ErrInvalidInput)
		assert.ErrorIs(t, svc.CopyLink(context.Background(), r), domain.ErrInvalidInput)
	}
	assert.Empty(t, *opened)
	assert.Empty(t, *copied)
}

func TestResultActionService_PropagatesCommandError(t *testing.T) {
	svc := NewResultActionService()
	boom := errors.New("xdg-open missing")
	svc.openURL = func(string) error { return boom }

	err := svc.OpenResult(context.Background(), &domain.SearchResult{URL: "https://example.com"})
	assert.ErrorIs(t, err, boom)
}
