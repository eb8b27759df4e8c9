package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vihar/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDeletions_EmptyWhenAbsentOrCorrupted(t *testing.T) {
	ctx := context.Background()
	d := NewDeletions(discard)
	m := store.NewMemory()

	assert.Empty(t, d.IDs(ctx, m))
	m.Corrupt(store.KeyDeletedIDs)
	assert.Empty(t, d.IDs(ctx, m))
	assert.False(t, d.Contains(ctx, m, "v1"))
}

func TestDeletions_MarkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := NewDeletions(discard)
	m := store.NewMemory()

	require.NoError(t, d.MarkPermanentlyDeleted(ctx, m, "v1"))
	require.NoError(t, d.MarkPermanentlyDeleted(ctx, m, "p1"))
	require.NoError(t, d.MarkPermanentlyDeleted(ctx, m, "v1"))

	assert.Equal(t, []string{"v1", "p1"}, d.IDs(ctx, m))
	assert.True(t, d.Contains(ctx, m, "p1"))
	assert.Len(t, d.Set(ctx, m), 2)

	raw, _ := m.Raw(store.KeyDeletedIDs)
	assert.Equal(t, `["v1","p1"]`, raw)
}

func TestDeletions_RepeatMarkDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	d := NewDeletions(discard)
	m := store.NewMemory()
	require.NoError(t, d.MarkPermanentlyDeleted(ctx, m, "v1"))

	m.FailWrites(true)
	assert.NoError(t, d.MarkPermanentlyDeleted(ctx, m, "v1"))
	assert.ErrorIs(t, d.MarkPermanentlyDeleted(ctx, m, "v2"), store.ErrWriteFailed)
}

func TestDeletions_CorruptedLedgerIsReplaced(t *testing.T) {
	ctx := context.Background()
	d := NewDeletions(discard)
	m := store.NewMemory()
	m.Corrupt(store.KeyDeletedIDs)

	require.NoError(t, d.MarkPermanentlyDeleted(ctx, m, "v1"))
	assert.Equal(t, []string{"v1"}, d.IDs(ctx, m))
}

func TestVotes_WriteOnce(t *testing.T) {
	ctx := context.Background()
	v := NewVotes(discard)
	m := store.NewMemory()

	assert.False(t, v.HasVoted(ctx, m, "p1"))

	ok, err := v.RecordVote(ctx, m, "p1", "optA")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.RecordVote(ctx, m, "p1", "optB")
	require.NoError(t, err)
	assert.False(t, ok)

	choice, found := v.Choice(ctx, m, "p1")
	assert.True(t, found)
	assert.Equal(t, "optA", choice)
	assert.True(t, v.HasVoted(ctx, m, "p1"))
	assert.False(t, v.HasVoted(ctx, m, "p2"))
}

func TestVotes_CorruptedAndNull(t *testing.T) {
	ctx := context.Background()
	v := NewVotes(discard)
	m := store.NewMemory()

	m.Corrupt(store.KeyUserVotes)
	assert.Empty(t, v.All(ctx, m))

	m.Put(store.KeyUserVotes, "null")
	assert.NotNil(t, v.All(ctx, m))
	assert.Empty(t, v.All(ctx, m))

	ok, err := v.RecordVote(ctx, m, "p1", "o1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVotes_WriteFailure(t *testing.T) {
	ctx := context.Background()
	v := NewVotes(discard)
	m := store.NewMemory()
	m.FailWrites(true)

	ok, err := v.RecordVote(ctx, m, "p1", "o1")
	require.ErrorIs(t, err, store.ErrWriteFailed)
	assert.False(t, ok)
}
