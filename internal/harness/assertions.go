package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/repo"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final state and
// returns one message per failure.
func EvaluateAssertions(a *app.App, final Snapshot, assertions []Assertion) []string {
	var errs []string
	for _, assertion := range assertions {
		if err := evaluate(a, final, assertion); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(a *app.App, final Snapshot, as Assertion) error {
	switch as.Type {
	case AssertViharPresent, AssertViharAbsent:
		return assertPresence(as.Type, "vihar", as.Vihar, findVihar(final.Vihars, as.Vihar) >= 0, as.Type == AssertViharPresent)
	case AssertPollPresent, AssertPollAbsent:
		return assertPresence(as.Type, "poll", as.Poll, findPoll(final.Polls, as.Poll) >= 0, as.Type == AssertPollPresent)
	case AssertViharStatus:
		return assertViharStatus(final, as)
	case AssertParticipants:
		return assertParticipants(final, as)
	case AssertOptionVotes:
		return assertOptionVotes(final, as)
	case AssertHasVoted:
		// Ask the App, not the snapshot, so the in-memory view is covered too.
		if got := a.HasVoted(as.Poll); got != *as.Voted {
			return &AssertionError{
				Type:     as.Type,
				Expected: fmt.Sprintf("hasVoted(%s) = %t", as.Poll, *as.Voted),
				Actual:   fmt.Sprintf("%t", got),
			}
		}
		return nil
	case AssertNotificationCount:
		return assertNotificationCount(final, as)
	default:
		return &AssertionError{Type: as.Type, Expected: "known assertion type", Actual: as.Type}
	}
}

func assertPresence(typ, kind, id string, found, want bool) error {
	if found == want {
		return nil
	}
	state := func(b bool) string {
		if b {
			return "present"
		}
		return "absent"
	}
	return &AssertionError{
		Type:     typ,
		Expected: fmt.Sprintf("%s %s %s", kind, id, state(want)),
		Actual:   state(found),
	}
}

func assertViharStatus(final Snapshot, as Assertion) error {
	i := findVihar(final.Vihars, as.Vihar)
	if i < 0 {
		return &AssertionError{Type: as.Type, Expected: fmt.Sprintf("vihar %s with status %s", as.Vihar, as.Status), Actual: "vihar not found"}
	}
	if got := final.Vihars[i].Status; got != model.ViharStatus(as.Status) {
		return &AssertionError{Type: as.Type, Expected: as.Status, Actual: string(got)}
	}
	return nil
}

func assertParticipants(final Snapshot, as Assertion) error {
	i := findVihar(final.Vihars, as.Vihar)
	if i < 0 {
		return &AssertionError{Type: as.Type, Expected: fmt.Sprintf("vihar %s", as.Vihar), Actual: "vihar not found"}
	}
	got := final.Vihars[i].Participants
	if !slices.Equal(got, as.Participants) && !(len(got) == 0 && len(as.Participants) == 0) {
		return &AssertionError{
			Type:     as.Type,
			Expected: fmt.Sprintf("%q", as.Participants),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

func assertOptionVotes(final Snapshot, as Assertion) error {
	i := findPoll(final.Polls, as.Poll)
	if i < 0 {
		return &AssertionError{Type: as.Type, Expected: fmt.Sprintf("poll %s", as.Poll), Actual: "poll not found"}
	}
	opt, ok := final.Polls[i].Option(as.Option)
	if !ok {
		return &AssertionError{Type: as.Type, Expected: fmt.Sprintf("option %s on poll %s", as.Option, as.Poll), Actual: "option not found"}
	}
	if opt.Votes != *as.Votes {
		return &AssertionError{
			Type:     as.Type,
			Expected: fmt.Sprintf("%s.%s votes = %d", as.Poll, as.Option, *as.Votes),
			Actual:   fmt.Sprintf("%d", opt.Votes),
		}
	}
	return nil
}

func assertNotificationCount(final Snapshot, as Assertion) error {
	got := len(final.Notifications)
	what := "notifications"
	if as.Unread {
		got = repo.Unread(final.Notifications)
		what = "unread notifications"
	}
	if got != *as.Count {
		return &AssertionError{
			Type:     as.Type,
			Expected: fmt.Sprintf("%d %s", *as.Count, what),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

func findVihar(vs []model.Vihar, id string) int {
	return slices.IndexFunc(vs, func(v model.Vihar) bool { return v.ID == id })
}

func findPoll(ps []model.Poll, id string) int {
	return slices.IndexFunc(ps, func(p model.Poll) bool { return p.ID == id })
}
