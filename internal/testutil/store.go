package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/vihar/internal/store"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// KeyFailingAdapter wraps a store.Memory and rejects writes to chosen keys.
//
// It deliberately does not implement store.Batcher, so staged commits fall
// back to sequential writes and a failure can land part way through.
type KeyFailingAdapter struct {
	mem *store.Memory

	mu   sync.Mutex
	fail map[string]bool
}

// NewKeyFailingAdapter creates an adapter over a fresh Memory.
func NewKeyFailingAdapter() *KeyFailingAdapter {
	return &KeyFailingAdapter{mem: store.NewMemory(), fail: make(map[string]bool)}
}

// Memory returns the underlying adapter for inspection.
func (a *KeyFailingAdapter) Memory() *store.Memory {
	return a.mem
}

// FailKey makes writes to key fail (or succeed again when fail is false).
func (a *KeyFailingAdapter) FailKey(key string, fail bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail[key] = fail
}

func (a *KeyFailingAdapter) failing(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fail[key]
}

// Get implements store.Adapter.
func (a *KeyFailingAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	return a.mem.Get(ctx, key)
}

// Set implements store.Adapter.
func (a *KeyFailingAdapter) Set(ctx context.Context, key, value string) error {
	if a.failing(key) {
		return store.ErrWriteFailed
	}
	return a.mem.Set(ctx, key, value)
}

// Remove implements store.Adapter.
func (a *KeyFailingAdapter) Remove(ctx context.Context, key string) error {
	if a.failing(key) {
		return store.ErrWriteFailed
	}
	return a.mem.Remove(ctx, key)
}
