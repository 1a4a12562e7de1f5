package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/notesearch/internal/core/domain"
	"github.com/custodia-labs/notesearch/internal/core/ports/driven"
	"github.com/custodia-labs/notesearch/internal/logger"
)

// Ensure KVStore implements the interfaces.
var (
	_ driven.KeyValueStore = (*KVStore)(nil)
	_ driven.KeyWatcher    = (*KVStore)(nil)
)

// keyReplacer maps characters that are not portable in file names.
var keyReplacer = strings.NewReplacer(
	":", "_",
	"/", "_",
	"\\", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// KVStore stores each key as <dir>/<key>.json.
type KVStore struct {
	dir string

	mu      sync.Mutex
	closed  bool
	nextID  uint64
	cancels map[uint64]context.CancelFunc
	wg      sync.WaitGroup
}

// NewKVStore creates a store rooted at dir, creating it if needed.
func NewKVStore(dir string) (*KVStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: data directory is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &KVStore{dir: dir, cancels: make(map[uint64]context.CancelFunc)}, nil
}

// Dir returns the directory holding the values.
func (s *KVStore) Dir() string {
	return s.dir
}

// Path returns the file a key is stored in.
func (s *KVStore) Path(key string) string {
	return filepath.Join(s.dir, keyReplacer.Replace(key)+".json")
}

// Get reads the value stored under key.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the value stored under key.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	return writeFileAtomic(s.Path(key), value, 0600)
}

// Delete removes key. Missing keys are ignored.
func (s *KVStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Watch reports changes to key made by any process. The directory is
// watched rather than the file because writes replace the file.
func (s *KVStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errors.New("store is closed")
	}
	ctx, cancel := context.WithCancel(ctx)
	id := s.nextID
	s.nextID++
	s.cancels[id] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.release(id)
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		s.release(id)
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	target := filepath.Base(s.Path(key))
	out := make(chan struct{}, 1)

	go func() {
		defer s.release(id)
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("kv watch %s: %v", key, werr)
			}
		}
	}()

	return out, nil
}

// release forgets watch id and cancels its context.
func (s *KVStore) release(id uint64) {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()
	if ok {
		cancel()
	}
	s.wg.Done()
}

// activeWatches returns the number of running watches.
func (s *KVStore) activeWatches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

// Close stops all watchers and waits for them to exit.
func (s *KVStore) Close() error {
	s.mu.Lock()
	s.closed = true
	cancels := make([]context.CancelFunc, 0, len(s.cancels))
	for _, cancel := range s.cancels {
		cancels = append(cancels, cancel)
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.wg.Wait()
	return nil
}
