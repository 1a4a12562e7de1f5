package driven

import "context"

// KeyValueStore is a small local persistence area of named slots.
// Values are opaque bytes, usually JSON.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// KeyWatcher is implemented by stores that can report changes made by
// other processes.
type KeyWatcher interface {
	// Watch returns a channel that receives a value each time key changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}
