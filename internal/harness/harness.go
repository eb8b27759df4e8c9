package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/ids"
	"github.com/roach88/vihar/internal/ledger"
	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/seed"
	"github.com/roach88/vihar/internal/store"
	"github.com/roach88/vihar/internal/testutil"
)

// Harness owns the environment a scenario runs in. The store, clock and ID
// sequence outlive restarts; the App does not.
type Harness struct {
	store  *store.Memory
	clock  *testutil.ManualClock
	ids    *ids.Sequence
	logger *slog.Logger
	app    *app.App
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store. A returned error
// means the environment itself broke (the App could not be constructed);
// failed expectations and assertions are reported in the Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	h := &Harness{
		store:  store.NewMemory(),
		clock:  testutil.NewManualClock(testutil.Epoch),
		ids:    ids.NewSequence("id"),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	if err := h.restart(ctx); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		outcome, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		result.Steps = append(result.Steps, outcome)
		checkExpect(result, i, step, outcome)
	}

	result.Final = h.Snapshot(ctx)
	for _, msg := range EvaluateAssertions(h.app, result.Final, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) restart(ctx context.Context) error {
	a, err := app.New(ctx, app.Deps{
		Store:  h.store,
		Logger: h.logger,
		Clock:  h.clock,
		IDs:    h.ids,
	})
	if err != nil {
		return fmt.Errorf("failed to start app: %w", err)
	}
	h.app = a
	return nil
}

// execute runs one step. Domain errors become part of the outcome; only
// environment failures are returned.
func (h *Harness) execute(ctx context.Context, step Step) (StepOutcome, error) {
	out := StepOutcome{Op: step.Op}
	args := step.Args
	var err error

	switch step.Op {
	case OpLogin:
		_, err = h.app.Login(ctx, args.Name, model.Role(args.Role), args.PIN)
	case OpLogout:
		h.app.Logout(ctx)
	case OpAddVihar:
		_, err = h.app.AddVihar(ctx, args.vihar())
	case OpUpdateVihar:
		_, err = h.app.UpdateVihar(ctx, args.vihar())
	case OpSetStatus:
		_, err = h.app.SetViharStatus(ctx, args.ID, model.ViharStatus(args.Status))
	case OpDeleteVihar:
		err = h.app.DeleteVihar(ctx, args.ID)
	case OpJoinVihar:
		_, err = h.app.JoinVihar(ctx, args.ID, args.Name)
	case OpLeaveVihar:
		_, err = h.app.LeaveVihar(ctx, args.ID, args.Name)
	case OpAddPoll:
		_, err = h.app.AddPoll(ctx, args.poll())
	case OpUpdatePoll:
		_, err = h.app.UpdatePoll(ctx, args.poll())
	case OpSetPollActive:
		_, err = h.app.SetPollActive(ctx, args.ID, *args.Active)
	case OpDeletePoll:
		err = h.app.DeletePoll(ctx, args.ID)
	case OpCastVote:
		var counted bool
		_, counted, err = h.app.CastVote(ctx, args.Poll, args.Option)
		if err == nil {
			out.Counted = &counted
		}
	case OpMarkRead:
		err = h.app.MarkNotificationRead(ctx, args.ID)
	case OpRestart:
		return out, h.restart(ctx)
	case OpResetSeed:
		if err := h.resetSeed(ctx, args.Wipe); err != nil {
			return out, err
		}
		return out, h.restart(ctx)
	case OpAdvance:
		d, perr := time.ParseDuration(args.Duration)
		if perr != nil {
			return out, perr
		}
		h.clock.Advance(d)
	default:
		return out, fmt.Errorf("unknown op %q", step.Op)
	}

	out.Error = errorKind(err)
	return out, nil
}

// resetSeed clears the initialization flag. With wipe, the vihar and poll
// collections go too, so the next start seeds them again; the ledgers stay.
func (h *Harness) resetSeed(ctx context.Context, wipe bool) error {
	if err := seed.ResetFlag(ctx, h.store); err != nil {
		return err
	}
	if !wipe {
		return nil
	}
	for _, key := range []string{store.KeyVihars, store.KeyPolls} {
		if err := h.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot captures the visible state. Collections come from the App;
// ledgers and the initialization flag come from the store.
func (h *Harness) Snapshot(ctx context.Context) Snapshot {
	s := Snapshot{
		Vihars:        h.app.ListVihars(),
		Polls:         h.app.ListPolls(),
		Votes:         ledger.NewVotes(h.logger).All(ctx, h.store),
		Notifications: h.app.ListNotifications(),
		DeletedIDs:    ledger.NewDeletions(h.logger).IDs(ctx, h.store),
		Initialized:   seed.Initialized(ctx, h.store),
	}
	if u, ok := h.app.CurrentUser(); ok {
		s.User = &u
	}
	if s.Vihars == nil {
		s.Vihars = []model.Vihar{}
	}
	if s.Polls == nil {
		s.Polls = []model.Poll{}
	}
	if s.Notifications == nil {
		s.Notifications = []model.AppNotification{}
	}
	if s.Votes == nil {
		s.Votes = map[string]string{}
	}
	return s
}

func (a Args) vihar() model.Vihar {
	return model.Vihar{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		From:        a.From,
		To:          a.To,
		StartDate:   a.StartDate,
		Status:      model.ViharStatus(a.Status),
	}
}

func (a Args) poll() model.Poll {
	p := model.Poll{ID: a.ID, Question: a.Question, IsActive: true}
	if a.Active != nil {
		p.IsActive = *a.Active
	}
	for _, o := range a.Options {
		p.Options = append(p.Options, model.PollOption{ID: o.ID, Text: o.Text})
	}
	return p
}

// errorKind classifies err into one of the Err* kinds.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case model.IsValidation(err):
		return ErrValidation
	case errors.Is(err, model.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, model.ErrInvalidCredential):
		return ErrInvalidCredential
	default:
		return errOther
	}
}

func checkExpect(result *Result, i int, step Step, got StepOutcome) {
	want := Expect{}
	if step.Expect != nil {
		want = *step.Expect
	}
	if got.Error != want.Error {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error %q, got %q", i, step.Op, want.Error, got.Error))
		return
	}
	if want.Counted != nil && (got.Counted == nil || *got.Counted != *want.Counted) {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected counted=%t", i, step.Op, *want.Counted))
	}
}
