package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestRun_FreshStore(t *testing.T) {
	result, err := Run(context.Background(), &Scenario{
		Name:        "fresh",
		Description: "fresh store",
		Steps:       []Step{{Op: OpRestart}},
		Assertions: []Assertion{
			{Type: AssertViharPresent, Vihar: "default-vihar-1"},
			{Type: AssertViharStatus, Vihar: "default-vihar-1", Status: "ongoing"},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.True(t, result.Final.Initialized)
	assert.Len(t, result.Final.Vihars, 1)
	assert.Equal(t, "Shikharji Yatra", result.Final.Vihars[0].Title)
	assert.Nil(t, result.Final.User)
}

func TestRun_ExpectationMismatchFails(t *testing.T) {
	result, err := Run(context.Background(), &Scenario{
		Name:        "mismatch",
		Description: "expects an error that never comes",
		Steps: []Step{
			{Op: OpDeleteVihar, Args: Args{ID: "default-vihar-1"}, Expect: &Expect{Error: ErrNotFound}},
			{Op: OpCastVote, Args: Args{Poll: "default-poll-1", Option: "opt1"}, Expect: &Expect{Counted: boolPtr(false)}},
			{Op: OpDeleteVihar, Args: Args{ID: ""}},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], `expected error "not_found", got ""`)
	assert.Contains(t, result.Errors[1], "expected counted=false")
	assert.Contains(t, result.Errors[2], `expected error "", got "validation"`)
}

func TestRun_AssertionFailuresReported(t *testing.T) {
	result, err := Run(context.Background(), &Scenario{
		Name:        "assertions",
		Description: "every assertion fails",
		Steps:       []Step{{Op: OpRestart}},
		Assertions: []Assertion{
			{Type: AssertViharAbsent, Vihar: "default-vihar-1"},
			{Type: AssertPollAbsent, Poll: "default-poll-1"},
			{Type: AssertOptionVotes, Poll: "default-poll-1", Option: "opt1", Votes: intPtr(0)},
			{Type: AssertHasVoted, Poll: "default-poll-1", Voted: boolPtr(true)},
			{Type: AssertNotificationCount, Count: intPtr(3)},
			{Type: AssertParticipants, Vihar: "default-vihar-1", Participants: []string{"Asha"}},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 6)
}

func TestRun_RestartKeepsStoreAndClock(t *testing.T) {
	result, err := Run(context.Background(), &Scenario{
		Name:        "restart",
		Description: "state survives restart",
		Steps: []Step{
			{Op: OpLogin, Args: Args{Name: "Asha", Role: "user"}},
			{Op: OpJoinVihar, Args: Args{ID: "default-vihar-1", Name: "Asha"}},
			{Op: OpAdvance, Args: Args{Duration: "2m"}},
			{Op: OpRestart},
		},
		Assertions: []Assertion{
			{Type: AssertParticipants, Vihar: "default-vihar-1", Participants: []string{"Asha"}},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.NotNil(t, result.Final.User)
	assert.Equal(t, "Asha", result.Final.User.Name)
	assert.Equal(t, "id-1", result.Final.User.ID)
}

func TestRun_ResetSeedWithoutWipeKeepsCollections(t *testing.T) {
	result, err := Run(context.Background(), &Scenario{
		Name:        "reset",
		Description: "reset_seed without wipe",
		Steps: []Step{
			{Op: OpDeletePoll, Args: Args{ID: "default-poll-1"}},
			{Op: OpResetSeed},
		},
		Assertions: []Assertion{
			{Type: AssertPollAbsent, Poll: "default-poll-1"},
			{Type: AssertViharPresent, Vihar: "default-vihar-1"},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"default-poll-1"}, result.Final.DeletedIDs)
	assert.True(t, result.Final.Initialized)
}

func TestRun_MarkReadAll(t *testing.T) {
	result, err := Run(context.Background(), &Scenario{
		Name:        "read",
		Description: "mark all read",
		Steps: []Step{
			{Op: OpSetPollActive, Args: Args{ID: "default-poll-1", Active: boolPtr(false)}},
			{Op: OpSetPollActive, Args: Args{ID: "default-poll-1", Active: boolPtr(true)}},
			{Op: OpMarkRead, Args: Args{ID: "id-2"}},
		},
		Assertions: []Assertion{
			{Type: AssertNotificationCount, Count: intPtr(2)},
			{Type: AssertNotificationCount, Count: intPtr(1), Unread: true},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", errorKind(nil))
	assert.Equal(t, errOther, errorKind(assert.AnError))
}
