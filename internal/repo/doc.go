// Package repo provides typed access to the domain collections.
//
// Each collection lives under one store key as a whole JSON array. Reads run
// the seed policy first and hide every ID in the deletion ledger, even when
// the raw blob still holds the entity. Writes replace the whole collection;
// there is no patch path.
//
// Accessors take the store.Adapter per call so the orchestrator can run
// them against a staged store.Txn and commit several keys together.
package repo
