package services

import (
	"context"

	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
)

// Ensure SessionFactory implements the interface.
var _ driving.SessionFactory = (*SessionFactory)(nil)

// SessionFactory creates sessions over one transport, recent-search store
// and response cache.
type SessionFactory struct {
	transport driven.SearchTransport
	recent    driving.RecentSearchService
	cache     *ResponseCache
	opts      []SessionOption
}

// NewSessionFactory creates a session factory. A nil cache gets a shared
// cache with DefaultCacheTTL.
func NewSessionFactory(
	transport driven.SearchTransport,
	recent driving.RecentSearchService,
	cache *ResponseCache,
	opts ...SessionOption,
) *SessionFactory {
	if cache == nil {
		cache = NewResponseCache(DefaultCacheTTL)
	}
	return &SessionFactory{
		transport: transport,
		recent:    recent,
		cache:     cache,
		opts:      opts,
	}
}

// NewSession creates a session with its recent list already loaded from
// the store.
func (f *SessionFactory) NewSession() driving.SearchSession {
	s := NewSessionController(f.transport, f.recent, f.cache, f.opts...)
	s.recentList = f.recent.List(context.Background())
	return s
}
