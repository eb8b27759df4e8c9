// Package app is the application state orchestrator.
//
// An App holds the in-memory view of vihars, polls, notifications, the vote
// ledger and the current session, and is the single logical writer to the
// durable store. Every mutation runs under one mutex against the in-memory
// state and then persists.
//
// Persistence failures are logged and otherwise ignored: the in-memory state
// keeps the attempted change for the rest of the session. Validation and
// lookup failures are returned before anything is written.
//
// Writes that must land together are committed as one staged batch:
//
//	vote:    poll collection + vote ledger
//	delete:  collection + deletion ledger + notifications
//	create:  collection + notifications
//
// On adapters that implement store.Batcher (memory, SQLite, Postgres) such a
// batch is atomic.
package app
