package ledger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/vihar/internal/store"
)

// Deletions reads and appends to the deletion ledger.
type Deletions struct {
	logger *slog.Logger
}

// NewDeletions creates a deletion ledger accessor. A nil logger uses slog.Default().
func NewDeletions(logger *slog.Logger) *Deletions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deletions{logger: logger}
}

// IDs returns the ledger in append order. Absent or corrupted ledgers read as empty.
func (d *Deletions) IDs(ctx context.Context, a store.Adapter) []string {
	return store.ReadCollection[string](ctx, a, store.KeyDeletedIDs, d.logger)
}

// Set returns the ledger as a lookup set.
func (d *Deletions) Set(ctx context.Context, a store.Adapter) map[string]struct{} {
	ids := d.IDs(ctx, a)
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id has been permanently deleted.
func (d *Deletions) Contains(ctx context.Context, a store.Adapter, id string) bool {
	return slices.Contains(d.IDs(ctx, a), id)
}

// MarkPermanentlyDeleted appends id to the ledger. It is a no-op, with no
// write, when id is already present.
func (d *Deletions) MarkPermanentlyDeleted(ctx context.Context, a store.Adapter, id string) error {
	ids := d.IDs(ctx, a)
	if slices.Contains(ids, id) {
		return nil
	}
	return store.WriteCollection(ctx, a, store.KeyDeletedIDs, append(ids, id))
}
