// Package ledger holds the two append-only records that sit beside the
// domain collections.
//
// The deletion ledger is the set of permanently removed entity IDs. Every
// read path filters against it, and the seed policy consults it so default
// data never resurrects a deleted entity.
//
// The vote ledger maps a poll ID to the option chosen by this profile. A poll
// with an entry cannot be voted on again.
//
// Both ledgers take a store.Adapter per call so they can run against a staged
// store.Txn and commit together with the collection they guard.
package ledger
