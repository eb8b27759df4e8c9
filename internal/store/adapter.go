package store

import (
	"context"
	"errors"
	"fmt"
)

// Fixed keys. Each holds one JSON blob.
const (
	KeyVihars        = "hcv_vihars"
	KeyPolls         = "hcv_polls"
	KeyUserVotes     = "hcv_user_votes"
	KeyNotifications = "hcv_notifications"
	KeyInitialized   = "hcv_app_initialized"
	KeyDeletedIDs    = "hcv_deleted_ids"
	KeySession       = "hcv_user"
)

// AllKeys lists every key the application writes.
var AllKeys = []string{
	KeyVihars,
	KeyPolls,
	KeyUserVotes,
	KeyNotifications,
	KeyInitialized,
	KeyDeletedIDs,
	KeySession,
}

// ErrWriteFailed is returned by adapters configured to reject writes
// (quota exceeded, disabled storage).
var ErrWriteFailed = errors.New("store write failed")

// Adapter is the durable key-value contract.
//
// Get reports ok=false for absent keys. Remove on an absent key is not an error.
type Adapter interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Write is a single pending mutation. Delete=true removes Key and ignores Value.
type Write struct {
	Key    string
	Value  string
	Delete bool
}

// Batcher is implemented by adapters that can apply several writes atomically.
type Batcher interface {
	SetMany(ctx context.Context, writes []Write) error
}

// ApplyWrites applies writes through SetMany when a supports it, and one by
// one otherwise. The sequential path stops at the first failure.
func ApplyWrites(ctx context.Context, a Adapter, writes []Write) error {
	if len(writes) == 0 {
		return nil
	}
	if b, ok := a.(Batcher); ok {
		return b.SetMany(ctx, writes)
	}
	for _, w := range writes {
		var err error
		if w.Delete {
			err = a.Remove(ctx, w.Key)
		} else {
			err = a.Set(ctx, w.Key, w.Value)
		}
		if err != nil {
			return fmt.Errorf("apply %s: %w", w.Key, err)
		}
	}
	return nil
}
