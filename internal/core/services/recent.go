package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/core/ports/driving"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Ensure RecentSearchService implements the interface.
var _ driving.RecentSearchService = (*RecentSearchService)(nil)

// RecentSearchesKey is the persistence slot of the recent-search list.
const RecentSearchesKey = "noteSearch:recentSearches"

// RecentSearchService keeps the bounded, deduplicated recent-search list in
// a key/value store. Storage failures degrade to an empty list or a no-op.
type RecentSearchService struct {
	store driven.KeyValueStore
	now   func() time.Time

	// mu serialises read-modify-write of the slot.
	mu sync.Mutex
}

// NewRecentSearchService creates a new recent-search service.
func NewRecentSearchService(store driven.KeyValueStore) *RecentSearchService {
	return &RecentSearchService{
		store: store,
		now:   time.Now,
	}
}

// List returns the persisted list, or an empty list if absent or corrupt.
func (s *RecentSearchService) List(ctx context.Context) []domain.RecentSearch {
	data, err := s.store.Get(ctx, RecentSearchesKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Debug("recent: read failed: %v", err)
		}
		return []domain.RecentSearch{}
	}

	var list []domain.RecentSearch
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Debug("recent: discarding corrupt list: %v", err)
		return []domain.RecentSearch{}
	}
	if list == nil {
		return []domain.RecentSearch{}
	}
	if len(list) > domain.MaxRecentSearches {
		list = list[:domain.MaxRecentSearches]
	}
	return list
}

// Save prepends the trimmed query with the current time and result count.
func (s *RecentSearchService) Save(ctx context.Context, query string, resultCount int) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.RecentSearch{
		Query:       query,
		Timestamp:   s.now().UnixMilli(),
		ResultCount: resultCount,
	}
	list := domain.PrependRecent(s.List(ctx), entry)

	data, err := json.Marshal(list)
	if err != nil {
		logger.Debug("recent: encode failed: %v", err)
		return
	}
	if err := s.store.Set(ctx, RecentSearchesKey, data); err != nil {
		logger.Debug("recent: write failed: %v", err)
		return
	}
	logger.Debug("recent: saved %q (%d results), %d entries", query, resultCount, len(list))
}

// Clear removes the persisted list.
func (s *RecentSearchService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, RecentSearchesKey); err != nil {
		logger.Debug("recent: clear failed: %v", err)
	}
}

// Changes watches the recent-search slot when the store supports it.
func (s *RecentSearchService) Changes(ctx context.Context) (<-chan struct{}, error) {
	watcher, ok := s.store.(driven.KeyWatcher)
	if !ok {
		return nil, nil
	}
	ch, err := watcher.Watch(ctx, RecentSearchesKey)
	if err != nil {
		return nil, fmt.Errorf("watch recent searches: %w", err)
	}
	return ch, nil
}
