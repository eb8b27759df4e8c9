package app

import (
	"context"
	"slices"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/repo"
	"github.com/roach88/vihar/internal/store"
)

// ListNotifications returns notifications most recent first.
func (a *App) ListNotifications() []model.AppNotification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.notifications)
}

// UnreadCount returns the number of unread notifications.
func (a *App) UnreadCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return repo.Unread(a.notifications)
}

// MarkNotificationRead marks one notification read, or all of them when id
// is empty.
func (a *App) MarkNotificationRead(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id != "" && !slices.ContainsFunc(a.notifications, func(n model.AppNotification) bool { return n.ID == id }) {
		return model.NotFound("notification", id)
	}
	a.notifications = repo.MarkRead(a.notifications, id)
	a.persist(ctx, "mark read", func(tx store.Adapter) error {
		return a.saveNotifications(ctx, tx)
	})
	return nil
}

// Toast returns the latest notification while its toast is live. Toast
// expiry is independent of the persisted read flag.
func (a *App) Toast() (Toast, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.toast == nil || !a.clock.Now().Before(a.toast.ExpiresAt) {
		return Toast{}, false
	}
	return *a.toast, true
}

// DismissToast hides the current toast.
func (a *App) DismissToast() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toast = nil
}
