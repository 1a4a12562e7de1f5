package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
)

// Ensure KVStore implements the interfaces.
var (
	_ driven.KeyValueStore = (*KVStore)(nil)
	_ driven.KeyWatcher    = (*KVStore)(nil)
)

// KVStore is an in-memory implementation of driven.KeyValueStore.
// Values are copied in and out so callers cannot alias stored bytes.
type KVStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	watchers map[string][]chan struct{}

	// Err, when set, is returned by every operation. Tests use it to
	// simulate unavailable storage.
	Err error
}

// NewKVStore creates a new in-memory key/value store.
func NewKVStore() *KVStore {
	return &KVStore{
		values:   make(map[string][]byte),
		watchers: make(map[string][]chan struct{}),
	}
}

// Get returns the value stored under key.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	val, ok := s.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

// Set stores value under key.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.values[key] = append([]byte(nil), value...)
	s.notifyLocked(key)
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.notifyLocked(key)
	}
	return nil
}

// Watch returns a channel signalled on every change to key.
func (s *KVStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.watchers[key] = append(s.watchers[key], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.watchers[key]
		for i, w := range list {
			if w == ch {
				s.watchers[key] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// notifyLocked signals watchers of key without blocking. s.mu must be held.
func (s *KVStore) notifyLocked(key string) {
	for _, ch := range s.watchers[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close releases resources.
func (s *KVStore) Close() error {
	return nil
}
