// Package sqlite provides SQLite-backed implementations of the driven
// storage ports.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation, so
// the binary needs no CGO. One database connection serves:
//
//   - CacheStore: provider results keyed by source and query
//   - HistoryStore: completed searches
//   - SchedulerStore: maintenance task state and results
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default the database is stored at ~/.archstore/data/archstore.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode
// with a busy timeout.
package sqlite
