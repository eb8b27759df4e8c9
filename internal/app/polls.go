package app

import (
	"context"
	"slices"
	"strings"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/store"
)

// ListPolls returns the visible polls, most recently added first.
func (a *App) ListPolls() []model.Poll {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clonePolls(a.polls)
}

// ActivePolls returns polls still accepting votes.
func (a *App) ActivePolls() []model.Poll {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []model.Poll
	for _, p := range a.polls {
		if p.IsActive {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Poll returns the poll with id.
func (a *App) Poll(id string) (model.Poll, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.pollIndex(id)
	if i < 0 {
		return model.Poll{}, model.NotFound("poll", id)
	}
	return a.polls[i].Clone(), nil
}

// AddPoll creates an active poll from the non-blank options of p, every
// option at zero votes. Caller-supplied poll and option IDs are kept when
// unused; missing ones are minted.
func (a *App) AddPoll(ctx context.Context, p model.Poll) (model.Poll, error) {
	if err := model.ValidatePoll(p); err != nil {
		return model.Poll{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	id, err := a.mintID(ctx, p.ID)
	if err != nil {
		return model.Poll{}, err
	}
	next := model.Poll{
		ID:       id,
		Question: strings.TrimSpace(p.Question),
		IsActive: true,
	}
	used := make(map[string]bool)
	for _, o := range model.NonEmptyOptions(p.Options) {
		next.Options = append(next.Options, model.PollOption{
			ID:   a.optionID(o.ID, used),
			Text: o.Text,
		})
	}

	a.polls = slices.Insert(a.polls, 0, next)
	a.emit("New Poll", next.Question, model.NotifyPoll)
	a.persist(ctx, "add poll", func(tx store.Adapter) error {
		if err := a.repos.Polls.SaveAll(ctx, tx, a.polls); err != nil {
			return err
		}
		return a.saveNotifications(ctx, tx)
	})
	return next.Clone(), nil
}

// UpdatePoll replaces the question, options and active flag of the stored
// poll with the same ID. Vote counters are never taken from p: an option
// that keeps its identity keeps its stored count, and a new option starts
// at zero. Identity is matched by option ID first, then, for options sent
// without an ID, by text.
func (a *App) UpdatePoll(ctx context.Context, p model.Poll) (model.Poll, error) {
	if err := model.ValidatePoll(p); err != nil {
		return model.Poll{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.pollIndex(p.ID)
	if i < 0 {
		return model.Poll{}, model.NotFound("poll", p.ID)
	}
	prev := a.polls[i]
	next := model.Poll{
		ID:       prev.ID,
		Question: strings.TrimSpace(p.Question),
		IsActive: p.IsActive,
		Options:  a.mergeOptions(prev.Options, model.NonEmptyOptions(p.Options)),
	}
	return a.replacePoll(ctx, i, next), nil
}

// SetPollActive opens or closes a poll.
func (a *App) SetPollActive(ctx context.Context, id string, active bool) (model.Poll, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.pollIndex(id)
	if i < 0 {
		return model.Poll{}, model.NotFound("poll", id)
	}
	next := a.polls[i].Clone()
	next.IsActive = active
	return a.replacePoll(ctx, i, next), nil
}

func (a *App) replacePoll(ctx context.Context, i int, next model.Poll) model.Poll {
	prev := a.polls[i]
	a.polls = clonePolls(a.polls)
	a.polls[i] = next
	if prev.IsActive != next.IsActive {
		title := "Poll Reopened"
		if !next.IsActive {
			title = "Poll Closed"
		}
		a.emit(title, next.Question, model.NotifyPoll)
	}
	a.persist(ctx, "update poll", func(tx store.Adapter) error {
		if err := a.repos.Polls.SaveAll(ctx, tx, a.polls); err != nil {
			return err
		}
		return a.saveNotifications(ctx, tx)
	})
	return next.Clone()
}

// mergeOptions carries identity and vote counts from stored to incoming.
func (a *App) mergeOptions(stored, incoming []model.PollOption) []model.PollOption {
	claimed := make(map[string]bool)
	byID := make(map[string]model.PollOption, len(stored))
	for _, o := range stored {
		byID[o.ID] = o
	}

	out := make([]model.PollOption, 0, len(incoming))
	var pending []int
	for _, o := range incoming {
		if s, ok := byID[o.ID]; ok && o.ID != "" && !claimed[o.ID] {
			claimed[o.ID] = true
			out = append(out, model.PollOption{ID: s.ID, Text: o.Text, Votes: s.Votes})
			continue
		}
		out = append(out, o)
		pending = append(pending, len(out)-1)
	}

	for _, idx := range pending {
		o := out[idx]
		if o.ID == "" {
			match := slices.IndexFunc(stored, func(s model.PollOption) bool {
				return !claimed[s.ID] && strings.EqualFold(strings.TrimSpace(s.Text), o.Text)
			})
			if match >= 0 {
				s := stored[match]
				claimed[s.ID] = true
				out[idx] = model.PollOption{ID: s.ID, Text: o.Text, Votes: s.Votes}
				continue
			}
		}
		out[idx] = model.PollOption{ID: a.optionID(o.ID, claimed), Text: o.Text}
	}
	return out
}

// optionID returns requested when it is non-empty and unused, else a new ID.
// The chosen ID is marked used.
func (a *App) optionID(requested string, used map[string]bool) string {
	id := requested
	for id == "" || used[id] {
		id = a.ids.NewID()
	}
	used[id] = true
	return id
}

// DeletePoll permanently removes the poll with id. See DeleteVihar.
func (a *App) DeletePoll(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.NewValidationError("id", "is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.pollIndex(id)
	if i >= 0 {
		a.polls = slices.Delete(clonePolls(a.polls), i, i+1)
		a.emit("Poll Removed", "A community poll was permanently deleted.", model.NotifyInfo)
	}
	a.persist(ctx, "delete poll", func(tx store.Adapter) error {
		if err := a.repos.Polls.SaveAll(ctx, tx, a.polls); err != nil {
			return err
		}
		if err := a.repos.Deletions.MarkPermanentlyDeleted(ctx, tx, id); err != nil {
			return err
		}
		return a.saveNotifications(ctx, tx)
	})
	return nil
}

// HasVoted reports whether this profile already voted on pollID.
func (a *App) HasVoted(pollID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.votes[pollID]
	return ok
}

// VoteChoice returns the option this profile chose on pollID.
func (a *App) VoteChoice(pollID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	opt, ok := a.votes[pollID]
	return opt, ok
}

// CastVote counts one vote for optionID. Votes are write-once: a second
// vote on the same poll changes nothing and reports counted=false. The
// poll collection and the vote ledger are committed together.
func (a *App) CastVote(ctx context.Context, pollID, optionID string) (poll model.Poll, counted bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.pollIndex(pollID)
	if i < 0 {
		return model.Poll{}, false, model.NotFound("poll", pollID)
	}
	current := a.polls[i]
	if _, voted := a.votes[pollID]; voted {
		return current.Clone(), false, nil
	}
	oi := slices.IndexFunc(current.Options, func(o model.PollOption) bool { return o.ID == optionID })
	if oi < 0 {
		return model.Poll{}, false, model.NotFound("option", optionID)
	}
	if !current.IsActive {
		return model.Poll{}, false, model.NewValidationError("poll", "is closed")
	}

	next := current.Clone()
	next.Options[oi].Votes++
	a.polls = clonePolls(a.polls)
	a.polls[i] = next
	a.votes[pollID] = optionID

	a.persist(ctx, "cast vote", func(tx store.Adapter) error {
		if err := a.repos.Polls.SaveAll(ctx, tx, a.polls); err != nil {
			return err
		}
		_, err := a.repos.Votes.RecordVote(ctx, tx, pollID, optionID)
		return err
	})
	return next.Clone(), true, nil
}

func (a *App) pollIndex(id string) int {
	return slices.IndexFunc(a.polls, func(p model.Poll) bool { return p.ID == id })
}

func clonePolls(in []model.Poll) []model.Poll {
	out := make([]model.Poll, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
