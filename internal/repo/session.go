package repo

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/store"
)

// Session persists the single current-user record.
type Session struct {
	logger *slog.Logger
}

// Load returns the stored user, or nil when there is none. A record that
// cannot be decoded or carries an unknown role is removed.
func (s *Session) Load(ctx context.Context, a store.Adapter) *model.User {
	raw, ok, err := a.Get(ctx, store.KeySession)
	if err != nil {
		s.logger.Warn("store read failed", "key", store.KeySession, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || !u.Role.Valid() {
		s.logger.Warn("removing unusable session record", "key", store.KeySession, "error", err)
		if err := a.Remove(ctx, store.KeySession); err != nil {
			s.logger.Error("store write failed", "key", store.KeySession, "error", err)
		}
		return nil
	}
	return &u
}

// Save overwrites the session record.
func (s *Session) Save(ctx context.Context, a store.Adapter, u model.User) error {
	return store.WriteJSON(ctx, a, store.KeySession, u)
}

// Clear removes the session record.
func (s *Session) Clear(ctx context.Context, a store.Adapter) error {
	return a.Remove(ctx, store.KeySession)
}
