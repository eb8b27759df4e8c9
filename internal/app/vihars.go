package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/repo"
	"github.com/roach88/vihar/internal/store"
)

// ListVihars returns the visible vihars, most recently added first.
func (a *App) ListVihars() []model.Vihar {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneVihars(a.vihars)
}

// OngoingVihars returns vihars currently underway.
func (a *App) OngoingVihars() []model.Vihar {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []model.Vihar
	for _, v := range a.vihars {
		if v.Status == model.StatusOngoing {
			out = append(out, v.Clone())
		}
	}
	return out
}

// Vihar returns the vihar with id.
func (a *App) Vihar(id string) (model.Vihar, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.viharIndex(id)
	if i < 0 {
		return model.Vihar{}, model.NotFound("vihar", id)
	}
	return a.vihars[i].Clone(), nil
}

// AddVihar validates v, mints its ID unless one is given, and prepends it.
// An empty status means planned. The roster always starts empty.
func (a *App) AddVihar(ctx context.Context, v model.Vihar) (model.Vihar, error) {
	if err := model.ValidateVihar(v); err != nil {
		return model.Vihar{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.mintID(ctx, v.ID)
	if err != nil {
		return model.Vihar{}, err
	}
	v = trimVihar(v)
	v.ID = id
	if v.Status == "" {
		v.Status = model.StatusPlanned
	}
	v.Participants = nil

	a.vihars = slices.Insert(a.vihars, 0, v)
	a.emit("New Vihar Planned", fmt.Sprintf("Join the journey from %s to %s!", v.From, v.To), model.NotifyVihar)
	a.persist(ctx, "add vihar", func(tx store.Adapter) error {
		if err := a.repos.Vihars.SaveAll(ctx, tx, a.vihars); err != nil {
			return err
		}
		return a.saveNotifications(ctx, tx)
	})
	return v.Clone(), nil
}

// UpdateVihar replaces the stored vihar with the same ID. The roster is kept
// from the stored record; it only changes through JoinVihar and LeaveVihar.
// An empty status keeps the stored one.
func (a *App) UpdateVihar(ctx context.Context, v model.Vihar) (model.Vihar, error) {
	if err := model.ValidateVihar(v); err != nil {
		return model.Vihar{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.viharIndex(v.ID)
	if i < 0 {
		return model.Vihar{}, model.NotFound("vihar", v.ID)
	}
	return a.replaceVihar(ctx, i, trimVihar(v)), nil
}

// SetViharStatus moves a vihar to status. Any status may follow any other.
func (a *App) SetViharStatus(ctx context.Context, id string, status model.ViharStatus) (model.Vihar, error) {
	if !status.Valid() {
		return model.Vihar{}, model.NewValidationError("status", "must be one of planned, ongoing, completed")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.viharIndex(id)
	if i < 0 {
		return model.Vihar{}, model.NotFound("vihar", id)
	}
	next := a.vihars[i].Clone()
	next.Status = status
	return a.replaceVihar(ctx, i, next), nil
}

func (a *App) replaceVihar(ctx context.Context, i int, next model.Vihar) model.Vihar {
	prev := a.vihars[i]
	next.Participants = slices.Clone(prev.Participants)
	if next.Status == "" {
		next.Status = prev.Status
	}

	a.vihars = cloneVihars(a.vihars)
	a.vihars[i] = next
	if next.Status != prev.Status {
		a.emit("Vihar Status Updated", fmt.Sprintf("%s is now %s.", next.Title, next.Status), model.NotifyVihar)
	}
	a.persist(ctx, "update vihar", func(tx store.Adapter) error {
		if err := a.repos.Vihars.SaveAll(ctx, tx, a.vihars); err != nil {
			return err
		}
		return a.saveNotifications(ctx, tx)
	})
	return next.Clone()
}

// DeleteVihar permanently removes the vihar with id. The ID is recorded in
// the deletion ledger even when no such vihar is visible, so it can never
// be seeded back. Only a removal of a visible vihar is announced.
func (a *App) DeleteVihar(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.NewValidationError("id", "is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.viharIndex(id)
	if i >= 0 {
		a.vihars = slices.Delete(cloneVihars(a.vihars), i, i+1)
		a.emit("Vihar Removed", "A vihar entry was permanently removed.", model.NotifyInfo)
	}
	a.persist(ctx, "delete vihar", func(tx store.Adapter) error {
		if err := a.repos.Vihars.SaveAll(ctx, tx, a.vihars); err != nil {
			return err
		}
		if err := a.repos.Deletions.MarkPermanentlyDeleted(ctx, tx, id); err != nil {
			return err
		}
		return a.saveNotifications(ctx, tx)
	})
	return nil
}

// JoinVihar adds name to the roster. Joining twice is a no-op.
func (a *App) JoinVihar(ctx context.Context, id, name string) (model.Vihar, error) {
	return a.updateRoster(ctx, "join vihar", id, name, repo.Join)
}

// LeaveVihar removes name from the roster. Leaving when absent is a no-op.
func (a *App) LeaveVihar(ctx context.Context, id, name string) (model.Vihar, error) {
	return a.updateRoster(ctx, "leave vihar", id, name, repo.Leave)
}

type rosterFunc func([]model.Vihar, string, string) ([]model.Vihar, bool, error)

func (a *App) updateRoster(ctx context.Context, op, id, name string, fn rosterFunc) (model.Vihar, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, changed, err := fn(a.vihars, id, name)
	if err != nil {
		return model.Vihar{}, err
	}
	if changed {
		a.vihars = next
		a.persist(ctx, op, func(tx store.Adapter) error {
			return a.repos.Vihars.SaveAll(ctx, tx, a.vihars)
		})
	}
	return a.vihars[a.viharIndex(id)].Clone(), nil
}

func (a *App) viharIndex(id string) int {
	return slices.IndexFunc(a.vihars, func(v model.Vihar) bool { return v.ID == id })
}

func cloneVihars(in []model.Vihar) []model.Vihar {
	out := make([]model.Vihar, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}

func trimVihar(v model.Vihar) model.Vihar {
	v.Title = strings.TrimSpace(v.Title)
	v.Description = strings.TrimSpace(v.Description)
	v.From = strings.TrimSpace(v.From)
	v.To = strings.TrimSpace(v.To)
	v.StartDate = strings.TrimSpace(v.StartDate)
	return v
}
