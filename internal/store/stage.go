package store

import (
	"context"
	"sync"
)

// Txn buffers writes against a base Adapter until Commit.
//
// Reads see pending writes first, so collaborators that read-modify-write
// within the same Txn observe each other's changes. Nothing reaches the base
// adapter before Commit.
type Txn struct {
	base Adapter

	mu      sync.Mutex
	pending map[string]Write
	order   []string
}

// Stage starts a Txn on top of base.
func Stage(base Adapter) *Txn {
	return &Txn{base: base, pending: make(map[string]Write)}
}

// Get implements Adapter.
func (t *Txn) Get(ctx context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	w, ok := t.pending[key]
	t.mu.Unlock()
	if ok {
		if w.Delete {
			return "", false, nil
		}
		return w.Value, true, nil
	}
	return t.base.Get(ctx, key)
}

// Set implements Adapter.
func (t *Txn) Set(_ context.Context, key, value string) error {
	t.record(Write{Key: key, Value: value})
	return nil
}

// Remove implements Adapter.
func (t *Txn) Remove(_ context.Context, key string) error {
	t.record(Write{Key: key, Delete: true})
	return nil
}

func (t *Txn) record(w Write) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, seen := t.pending[w.Key]; !seen {
		t.order = append(t.order, w.Key)
	}
	t.pending[w.Key] = w
}

// Writes returns the pending writes in first-touch order.
func (t *Txn) Writes() []Write {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Write, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.pending[k])
	}
	return out
}

// Commit flushes pending writes to the base adapter, atomically when the
// base implements Batcher. The buffer is cleared either way.
func (t *Txn) Commit(ctx context.Context) error {
	writes := t.Writes()
	t.mu.Lock()
	t.pending = make(map[string]Write)
	t.order = nil
	t.mu.Unlock()
	return ApplyWrites(ctx, t.base, writes)
}

// Atomically runs fn against a staged view of a and commits its writes.
// If fn returns an error nothing is written.
func Atomically(ctx context.Context, a Adapter, fn func(tx Adapter) error) error {
	tx := Stage(a)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
