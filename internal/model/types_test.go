package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViharStatus_Valid(t *testing.T) {
	for _, s := range ValidStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ViharStatus("cancelled").Valid())
	assert.False(t, ViharStatus("").Valid())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("root").Valid())
}

func TestVihar_CloneIsIndependent(t *testing.T) {
	v := Vihar{ID: "v1", Participants: []string{"Asha"}}
	cp := v.Clone()
	cp.Participants[0] = "Bhavin"
	assert.Equal(t, "Asha", v.Participants[0])
}

func TestVihar_HasParticipantNormalizes(t *testing.T) {
	// precomposed U+00E9 vs "e" followed by combining U+0301
	v := Vihar{Participants: []string{"Ren\u00e9"}}
	assert.True(t, v.HasParticipant("  Rene\u0301 "))
	assert.False(t, v.HasParticipant("Rena"))
}

func TestPoll_TotalsAndPercent(t *testing.T) {
	p := Poll{Options: []PollOption{
		{ID: "opt1", Votes: 12},
		{ID: "opt2", Votes: 8},
	}}
	assert.Equal(t, 20, p.TotalVotes())
	assert.Equal(t, 60, p.Percent("opt1"))
	assert.Equal(t, 40, p.Percent("opt2"))
	assert.Equal(t, 0, p.Percent("missing"))
	assert.Equal(t, 0, Poll{Options: []PollOption{{ID: "a"}}}.Percent("a"))
}

func TestPoll_CloneIsIndependent(t *testing.T) {
	p := Poll{Options: []PollOption{{ID: "a", Votes: 1}}}
	cp := p.Clone()
	cp.Options[0].Votes = 5
	assert.Equal(t, 1, p.Options[0].Votes)
}

func TestValidateVihar(t *testing.T) {
	valid := Vihar{Title: "T", From: "A", To: "B", StartDate: "2024-01-01"}

	tests := []struct {
		name  string
		edit  func(*Vihar)
		field string
	}{
		{"valid", func(*Vihar) {}, ""},
		{"missing title", func(v *Vihar) { v.Title = "  " }, "title"},
		{"missing from", func(v *Vihar) { v.From = "" }, "from"},
		{"missing to", func(v *Vihar) { v.To = "" }, "to"},
		{"missing date", func(v *Vihar) { v.StartDate = "" }, "startDate"},
		{"bad status", func(v *Vihar) { v.Status = "paused" }, "status"},
		{"explicit status", func(v *Vihar) { v.Status = StatusCompleted }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid
			tt.edit(&v)
			err := ValidateVihar(v)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidatePoll(t *testing.T) {
	opts := func(texts ...string) []PollOption {
		out := make([]PollOption, len(texts))
		for i, s := range texts {
			out[i] = PollOption{Text: s}
		}
		return out
	}

	assert.NoError(t, ValidatePoll(Poll{Question: "Q?", Options: opts("A", "B")}))
	assert.True(t, IsValidation(ValidatePoll(Poll{Question: "", Options: opts("A", "B")})))
	assert.True(t, IsValidation(ValidatePoll(Poll{Question: "Q?", Options: opts("A", " ")})))
	assert.True(t, IsValidation(ValidatePoll(Poll{Question: "Q?", Options: opts("A")})))
	assert.NoError(t, ValidatePoll(Poll{Question: "Q?", Options: opts("A", "", "B")}))
}

func TestNonEmptyOptions_Trims(t *testing.T) {
	got := NonEmptyOptions([]PollOption{{Text: " A "}, {Text: ""}, {ID: "x", Text: "B", Votes: 3}})
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Text)
	assert.Equal(t, PollOption{ID: "x", Text: "B", Votes: 3}, got[1])
}

func TestErrors(t *testing.T) {
	err := NotFound("vihar", "v9")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `vihar "v9"`)

	wrapped := fmt.Errorf("add: %w", NewValidationError("title", "is required"))
	assert.True(t, IsValidation(wrapped))
	assert.Equal(t, "validation: title: is required", NewValidationError("title", "is required").Error())
	assert.Equal(t, "validation: bad", NewValidationError("", "bad").Error())
	assert.False(t, IsValidation(ErrNotFound))
}
