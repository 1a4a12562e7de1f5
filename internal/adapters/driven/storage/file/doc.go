// Package file provides filesystem implementations of the driven storage
// ports.
//
// Adapters:
//   - KVStore: one JSON file per key, watchable with fsnotify
//   - TokenStore: the signed-in user's OAuth token
//
// All writes go through a temp file and a rename so readers in other
// processes never observe a partial value.
package file
