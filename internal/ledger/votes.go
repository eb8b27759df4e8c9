package ledger

import (
	"context"
	"log/slog"

	"github.com/roach88/vihar/internal/store"
)

// Votes reads and writes the vote ledger (poll ID -> option ID).
type Votes struct {
	logger *slog.Logger
}

// NewVotes creates a vote ledger accessor. A nil logger uses slog.Default().
func NewVotes(logger *slog.Logger) *Votes {
	if logger == nil {
		logger = slog.Default()
	}
	return &Votes{logger: logger}
}

// All returns the whole ledger. Absent or corrupted ledgers read as empty.
func (v *Votes) All(ctx context.Context, a store.Adapter) map[string]string {
	out := map[string]string{}
	if !store.ReadJSON(ctx, a, store.KeyUserVotes, &out, v.logger) || out == nil {
		return map[string]string{}
	}
	return out
}

// HasVoted reports whether pollID has a recorded vote.
func (v *Votes) HasVoted(ctx context.Context, a store.Adapter, pollID string) bool {
	_, ok := v.All(ctx, a)[pollID]
	return ok
}

// Choice returns the option recorded for pollID.
func (v *Votes) Choice(ctx context.Context, a store.Adapter, pollID string) (string, bool) {
	opt, ok := v.All(ctx, a)[pollID]
	return opt, ok
}

// RecordVote stores the choice for pollID. Votes are write-once: an existing
// entry is left unchanged and reported with recorded=false.
func (v *Votes) RecordVote(ctx context.Context, a store.Adapter, pollID, optionID string) (recorded bool, err error) {
	all := v.All(ctx, a)
	if _, ok := all[pollID]; ok {
		return false, nil
	}
	all[pollID] = optionID
	if err := store.WriteJSON(ctx, a, store.KeyUserVotes, all); err != nil {
		return false, err
	}
	return true, nil
}
