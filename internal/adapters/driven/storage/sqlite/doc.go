// Package sqlite provides a SQLite-backed implementation of
// driven.KeyValueStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Values live in a single kv_store table.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a NNN_name.up.sql file; applied
// versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.notesearch/data/state.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// with a busy timeout so several notesearch processes can share it.
package sqlite
