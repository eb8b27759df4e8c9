package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/roach88/vihar/internal/ids"
	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/repo"
	"github.com/roach88/vihar/internal/seed"
	"github.com/roach88/vihar/internal/store"
)

// Defaults applied by New when a Deps field is zero.
const (
	DefaultAdminPIN = "JAIN"
	DefaultToastTTL = 5 * time.Second
)

// Deps are the collaborators of an App.
type Deps struct {
	// Store is required.
	Store store.Adapter

	// Defaults is the seed content. Nil uses seed.Builtin().
	Defaults *seed.Defaults

	Logger   *slog.Logger
	Clock    ids.Clock
	IDs      ids.Generator
	AdminPIN string
	ToastTTL time.Duration
}

// Toast is the transient copy of the latest notification.
type Toast struct {
	Notification model.AppNotification
	ExpiresAt    time.Time
}

// App is the orchestrator. Safe for concurrent use.
type App struct {
	mu sync.Mutex

	store    store.Adapter
	repos    *repo.Repositories
	logger   *slog.Logger
	clock    ids.Clock
	ids      ids.Generator
	adminPIN string
	toastTTL time.Duration

	user          *model.User
	vihars        []model.Vihar
	polls         []model.Poll
	notifications []model.AppNotification
	votes         map[string]string
	toast         *Toast
}

// New loads the in-memory state from d.Store, seeding it on first run.
func New(ctx context.Context, d Deps) (*App, error) {
	if d.Store == nil {
		return nil, fmt.Errorf("app: store is required")
	}
	var defaults seed.Defaults
	if d.Defaults != nil {
		defaults = d.Defaults.Clone()
	} else {
		b, err := seed.Builtin()
		if err != nil {
			return nil, fmt.Errorf("load seed defaults: %w", err)
		}
		defaults = b
	}

	a := &App{
		store:    d.Store,
		logger:   d.Logger,
		clock:    d.Clock,
		ids:      d.IDs,
		adminPIN: d.AdminPIN,
		toastTTL: d.ToastTTL,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.clock == nil {
		a.clock = ids.SystemClock{}
	}
	if a.ids == nil {
		a.ids = ids.UUIDv7{}
	}
	if a.adminPIN == "" {
		a.adminPIN = DefaultAdminPIN
	}
	if a.toastTTL == 0 {
		a.toastTTL = DefaultToastTTL
	}
	a.repos = repo.New(defaults, a.logger)

	a.user = a.repos.Session.Load(ctx, a.store)
	a.vihars = a.repos.Vihars.GetAll(ctx, a.store)
	a.polls = a.repos.Polls.GetAll(ctx, a.store)
	a.notifications = a.repos.Notifications.List(ctx, a.store)
	a.votes = a.repos.Votes.All(ctx, a.store)

	a.logger.Debug("state loaded",
		"vihars", len(a.vihars),
		"polls", len(a.polls),
		"notifications", len(a.notifications),
		"votes", len(a.votes))
	return a, nil
}

// persist commits fn's writes as one batch. Failures are logged, not
// returned; the in-memory state stays authoritative for this session.
func (a *App) persist(ctx context.Context, op string, fn func(tx store.Adapter) error) {
	if err := store.Atomically(ctx, a.store, fn); err != nil {
		a.logger.Error("store write failed", "op", op, "error", err)
	}
}

// emit prepends a notification and makes it the current toast. The caller
// persists a.notifications.
func (a *App) emit(title, message string, typ model.NotificationType) model.AppNotification {
	now := a.clock.Now()
	n := model.AppNotification{
		ID:        a.ids.NewID(),
		Title:     title,
		Message:   message,
		Type:      typ,
		Timestamp: now.UnixMilli(),
	}
	a.notifications = slices.Insert(a.notifications, 0, n)
	a.toast = &Toast{Notification: n, ExpiresAt: now.Add(a.toastTTL)}
	return n
}

func (a *App) saveNotifications(ctx context.Context, tx store.Adapter) error {
	return a.repos.Notifications.SaveAll(ctx, tx, a.notifications)
}

// idTaken reports whether id is used by a visible entity or was ever deleted.
func (a *App) idTaken(ctx context.Context, id string) bool {
	if slices.ContainsFunc(a.vihars, func(v model.Vihar) bool { return v.ID == id }) ||
		slices.ContainsFunc(a.polls, func(p model.Poll) bool { return p.ID == id }) {
		return true
	}
	return a.repos.Deletions.Contains(ctx, a.store, id)
}

func (a *App) mintID(ctx context.Context, requested string) (string, error) {
	if requested == "" {
		return a.ids.NewID(), nil
	}
	if a.idTaken(ctx, requested) {
		return "", model.NewValidationError("id", fmt.Sprintf("%q is already in use", requested))
	}
	return requested, nil
}
