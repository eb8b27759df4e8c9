// Package store provides the durable key-value layer underneath every Vihar
// collection.
//
// All domain data is persisted as whole-collection JSON blobs under a small
// set of fixed keys (see Key*). Nothing above this package touches files,
// sockets, or SQL directly; repositories receive an Adapter.
//
// # Adapters
//
//   - Memory: in-process map, used by tests and the "memory" driver
//   - Store: SQLite file (github.com/mattn/go-sqlite3) with a single kv table
//   - pgstore.Store: Postgres kv table via the pgx database/sql driver
//   - s3store.Store: one object per key in an S3-compatible bucket
//
// # Failure Model
//
// Readers never fail: ReadCollection and ReadJSON degrade absent or corrupted
// payloads to an empty value and log a warning. Writers return errors; the
// caller decides whether to log and continue, which is what the application
// layer does (in-memory state stays authoritative for the session).
//
// # Atomic Writes
//
// Adapters that also implement Batcher apply a set of writes in one
// transaction. Stage/Atomically buffer writes from several collaborators
// (e.g. the poll collection and the vote ledger) and flush them together.
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
