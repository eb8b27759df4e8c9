package repo

import (
	"context"
	"log/slog"

	"github.com/roach88/vihar/internal/ledger"
	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/seed"
	"github.com/roach88/vihar/internal/store"
)

// Collection is the repository for one seeded, deletion-filtered entity type.
type Collection[T any] struct {
	key       string
	id        func(T) string
	policy    *seed.Policy
	staged    func(seed.Result) []T
	deletions *ledger.Deletions
	logger    *slog.Logger
}

func newCollection[T any](key string, id func(T) string, staged func(seed.Result) []T, policy *seed.Policy, deletions *ledger.Deletions, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{key: key, id: id, staged: staged, policy: policy, deletions: deletions, logger: logger}
}

// Key returns the store key backing the collection.
func (c *Collection[T]) Key() string { return c.key }

// GetAll runs the seed policy, then returns the stored collection in stored
// order with every ledgered ID removed. Corrupted data reads as empty. If
// the seed commit fails, the defaults it staged for this key are returned
// so the session still sees them.
func (c *Collection[T]) GetAll(ctx context.Context, a store.Adapter) []T {
	res, err := c.policy.Seed(ctx, a)
	if err != nil {
		c.logger.Error("seeding failed", "key", c.key, "error", err)
		if items := c.staged(res); items != nil {
			return items
		}
	}
	items := store.ReadCollection[T](ctx, a, c.key, c.logger)
	deleted := c.deletions.Set(ctx, a)
	if len(deleted) == 0 {
		return items
	}
	out := items[:0]
	for _, it := range items {
		if _, gone := deleted[c.id(it)]; gone {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SaveAll writes items as the whole collection and asserts the
// initialization flag, so a later lazy seed cannot overwrite it.
func (c *Collection[T]) SaveAll(ctx context.Context, a store.Adapter, items []T) error {
	return store.Atomically(ctx, a, func(tx store.Adapter) error {
		if err := store.WriteCollection(ctx, tx, c.key, items); err != nil {
			return err
		}
		return seed.MarkInitialized(ctx, tx)
	})
}

// Repositories bundles every accessor the orchestrator needs.
type Repositories struct {
	Vihars        *Collection[model.Vihar]
	Polls         *Collection[model.Poll]
	Notifications *Notifications
	Session       *Session
	Deletions     *ledger.Deletions
	Votes         *ledger.Votes
}

// New wires the repositories around one seed policy. A nil logger uses
// slog.Default().
func New(defaults seed.Defaults, logger *slog.Logger) *Repositories {
	if logger == nil {
		logger = slog.Default()
	}
	deletions := ledger.NewDeletions(logger)
	policy := seed.NewPolicy(defaults, deletions, logger)
	vihars := newCollection(store.KeyVihars,
		func(v model.Vihar) string { return v.ID },
		func(r seed.Result) []model.Vihar { return r.Vihars },
		policy, deletions, logger)
	polls := newCollection(store.KeyPolls,
		func(p model.Poll) string { return p.ID },
		func(r seed.Result) []model.Poll { return r.Polls },
		policy, deletions, logger)
	return &Repositories{
		Vihars:        vihars,
		Polls:         polls,
		Notifications: &Notifications{logger: logger},
		Session:       &Session{logger: logger},
		Deletions:     deletions,
		Votes:         ledger.NewVotes(logger),
	}
}
