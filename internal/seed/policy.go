// Package seed populates default vihars and polls on the first run.
//
// Seeding is gated by the initialization flag: once it is set, seeding never
// runs again, even if a collection is later saved empty. A collection key
// that already exists is never overwritten, and a default entity whose ID is
// in the deletion ledger is never written.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/vihar/internal/ledger"
	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/store"
)

const flagValue = "true"

// Policy applies the seed rules against an adapter.
type Policy struct {
	defaults  Defaults
	deletions *ledger.Deletions
	logger    *slog.Logger
}

// NewPolicy creates a Policy that seeds d. A nil logger uses slog.Default().
func NewPolicy(d Defaults, deletions *ledger.Deletions, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	if deletions == nil {
		deletions = ledger.NewDeletions(logger)
	}
	return &Policy{defaults: d, deletions: deletions, logger: logger}
}

// Initialized reports whether the initialization flag is set.
func Initialized(ctx context.Context, a store.Adapter) bool {
	v, ok, err := a.Get(ctx, store.KeyInitialized)
	return err == nil && ok && v != ""
}

// MarkInitialized sets the initialization flag.
func MarkInitialized(ctx context.Context, a store.Adapter) error {
	return a.Set(ctx, store.KeyInitialized, flagValue)
}

// ResetFlag removes the initialization flag so the next EnsureInitialized
// runs the policy again. Existing collections are left alone.
func ResetFlag(ctx context.Context, a store.Adapter) error {
	return a.Remove(ctx, store.KeyInitialized)
}

// Result holds the collections a seeding run staged. A nil slice means the
// key already existed and was left alone.
type Result struct {
	Vihars []model.Vihar
	Polls  []model.Poll
}

// EnsureInitialized seeds absent collections and sets the flag, all in one
// commit. It is a no-op once the flag is set.
func (p *Policy) EnsureInitialized(ctx context.Context, a store.Adapter) error {
	_, err := p.Seed(ctx, a)
	return err
}

// Seed is EnsureInitialized that also reports what was staged. A read error
// aborts the run with the flag unset, so the next call retries. On any error
// the returned Result holds whatever was staged before it.
func (p *Policy) Seed(ctx context.Context, a store.Adapter) (Result, error) {
	if Initialized(ctx, a) {
		return Result{}, nil
	}
	var res Result
	err := store.Atomically(ctx, a, func(tx store.Adapter) error {
		deleted := p.deletions.Set(ctx, tx)
		d := p.defaults.Clone()

		missing, err := absent(ctx, tx, store.KeyVihars)
		if err != nil {
			return err
		}
		if missing {
			res.Vihars = filterDeleted(d.Vihars, deleted, func(v model.Vihar) string { return v.ID })
			if err := store.WriteCollection(ctx, tx, store.KeyVihars, res.Vihars); err != nil {
				return err
			}
		}
		missing, err = absent(ctx, tx, store.KeyPolls)
		if err != nil {
			return err
		}
		if missing {
			res.Polls = filterDeleted(d.Polls, deleted, func(pl model.Poll) string { return pl.ID })
			if err := store.WriteCollection(ctx, tx, store.KeyPolls, res.Polls); err != nil {
				return err
			}
		}
		return MarkInitialized(ctx, tx)
	})
	if err != nil {
		return res, err
	}
	if res.Vihars != nil {
		p.logger.Info("seeded default vihars", "count", len(res.Vihars))
	}
	if res.Polls != nil {
		p.logger.Info("seeded default polls", "count", len(res.Polls))
	}
	return res, nil
}

func absent(ctx context.Context, a store.Adapter, key string) (bool, error) {
	_, ok, err := a.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("seed: read %s: %w", key, err)
	}
	return !ok, nil
}

func filterDeleted[T any](items []T, deleted map[string]struct{}, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, gone := deleted[id(it)]; gone {
			continue
		}
		out = append(out, it)
	}
	return out
}
