package app

import (
	"context"

	"github.com/roach88/vihar/internal/model"
)

// Default display names for an empty login name.
const (
	DefaultAdminName = "Admin"
	DefaultUserName  = "Yatri"
)

// Login starts a session. Admins must present the configured PIN. The role
// check is a convenience for the presentation layer, not a security boundary.
func (a *App) Login(ctx context.Context, name string, role model.Role, pin string) (model.User, error) {
	if !role.Valid() {
		return model.User{}, model.NewValidationError("role", "must be admin or user")
	}
	if role == model.RoleAdmin && pin != a.adminPIN {
		return model.User{}, model.ErrInvalidCredential
	}

	name = model.NormalizeName(name)
	if name == "" {
		name = DefaultUserName
		if role == model.RoleAdmin {
			name = DefaultAdminName
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	u := model.User{ID: a.ids.NewID(), Name: name, Role: role}
	a.user = &u
	if err := a.repos.Session.Save(ctx, a.store, u); err != nil {
		a.logger.Error("store write failed", "op", "login", "error", err)
	}
	return u, nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.user = nil
	if err := a.repos.Session.Clear(ctx, a.store); err != nil {
		a.logger.Error("store write failed", "op", "logout", "error", err)
	}
}

// CurrentUser returns the logged-in user, if any.
func (a *App) CurrentUser() (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return model.User{}, false
	}
	return *a.user, true
}
