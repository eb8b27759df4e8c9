package repo

import (
	"context"
	"log/slog"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/store"
)

// Notifications is the notification collection. It is never seeded and
// never filtered by the deletion ledger.
type Notifications struct {
	logger *slog.Logger
}

// List returns notifications most recent first.
func (n *Notifications) List(ctx context.Context, a store.Adapter) []model.AppNotification {
	return store.ReadCollection[model.AppNotification](ctx, a, store.KeyNotifications, n.logger)
}

// SaveAll replaces the stored collection.
func (n *Notifications) SaveAll(ctx context.Context, a store.Adapter, items []model.AppNotification) error {
	return store.WriteCollection(ctx, a, store.KeyNotifications, items)
}

// MarkRead flips read on the notification with id, or on all of them when
// id is empty. The input slice is not modified.
func MarkRead(items []model.AppNotification, id string) []model.AppNotification {
	out := make([]model.AppNotification, len(items))
	for i, it := range items {
		if id == "" || it.ID == id {
			it.Read = true
		}
		out[i] = it
	}
	return out
}

// Unread counts notifications not yet read.
func Unread(items []model.AppNotification) int {
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n
}
