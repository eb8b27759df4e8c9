package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vihar/internal/model"
)

// Scenario is an end-to-end test: a sequence of steps followed by
// assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps run in order against a single store.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation with its expected outcome.
type Step struct {
	// Op is an App operation or a pseudo-operation (see package docs).
	Op string `yaml:"op"`

	Args Args `yaml:"args,omitempty"`

	// Expect is nil when the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Args holds the arguments of every operation; each op reads the fields
// it needs.
type Args struct {
	ID          string   `yaml:"id,omitempty"`
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	From        string   `yaml:"from,omitempty"`
	To          string   `yaml:"to,omitempty"`
	StartDate   string   `yaml:"start_date,omitempty"`
	Status      string   `yaml:"status,omitempty"`
	Question    string   `yaml:"question,omitempty"`
	Options     []Option `yaml:"options,omitempty"`
	Active      *bool    `yaml:"active,omitempty"`
	Poll        string   `yaml:"poll,omitempty"`
	Option      string   `yaml:"option,omitempty"`
	Name        string   `yaml:"name,omitempty"`
	Role        string   `yaml:"role,omitempty"`
	PIN         string   `yaml:"pin,omitempty"`
	Duration    string   `yaml:"duration,omitempty"`
	Wipe        bool     `yaml:"wipe,omitempty"`
}

// Option is a poll option as written in a scenario. Votes are never read
// from scenarios; counters only move through cast_vote.
type Option struct {
	ID   string `yaml:"id,omitempty"`
	Text string `yaml:"text"`
}

// Expect is the outcome a step must have.
type Expect struct {
	// Error is one of the Err* kinds, or empty for success.
	Error string `yaml:"error,omitempty"`

	// Counted checks cast_vote's counted result.
	Counted *bool `yaml:"counted,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Vihar is the vihar ID (vihar_present, vihar_absent, vihar_status,
	// participants).
	Vihar string `yaml:"vihar,omitempty"`

	// Poll is the poll ID (poll_present, poll_absent, option_votes, has_voted).
	Poll string `yaml:"poll,omitempty"`

	// Option is the option ID (option_votes).
	Option string `yaml:"option,omitempty"`

	Votes        *int     `yaml:"votes,omitempty"`
	Voted        *bool    `yaml:"voted,omitempty"`
	Status       string   `yaml:"status,omitempty"`
	Participants []string `yaml:"participants,omitempty"`

	// Count is the expected number of notifications; Unread restricts the
	// count to unread ones.
	Count  *int `yaml:"count,omitempty"`
	Unread bool `yaml:"unread,omitempty"`
}

// Operation names.
const (
	OpLogin         = "login"
	OpLogout        = "logout"
	OpAddVihar      = "add_vihar"
	OpUpdateVihar   = "update_vihar"
	OpSetStatus     = "set_vihar_status"
	OpDeleteVihar   = "delete_vihar"
	OpJoinVihar     = "join_vihar"
	OpLeaveVihar    = "leave_vihar"
	OpAddPoll       = "add_poll"
	OpUpdatePoll    = "update_poll"
	OpSetPollActive = "set_poll_active"
	OpDeletePoll    = "delete_poll"
	OpCastVote      = "cast_vote"
	OpMarkRead      = "mark_read"
	OpRestart       = "restart"
	OpResetSeed     = "reset_seed"
	OpAdvance       = "advance"
)

// Error kinds a step may expect.
const (
	ErrValidation        = "validation"
	ErrNotFound          = "not_found"
	ErrInvalidCredential = "invalid_credential"
	errOther             = "error"
)

// Assertion type constants.
const (
	AssertViharPresent      = "vihar_present"
	AssertViharAbsent       = "vihar_absent"
	AssertPollPresent       = "poll_present"
	AssertPollAbsent        = "poll_absent"
	AssertOptionVotes       = "option_votes"
	AssertHasVoted          = "has_voted"
	AssertParticipants      = "participants"
	AssertNotificationCount = "notification_count"
	AssertViharStatus       = "vihar_status"
)

var knownOps = map[string]bool{
	OpLogin: true, OpLogout: true,
	OpAddVihar: true, OpUpdateVihar: true, OpSetStatus: true, OpDeleteVihar: true,
	OpJoinVihar: true, OpLeaveVihar: true,
	OpAddPoll: true, OpUpdatePoll: true, OpSetPollActive: true, OpDeletePoll: true,
	OpCastVote: true, OpMarkRead: true,
	OpRestart: true, OpResetSeed: true, OpAdvance: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	if s.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", index)
	}
	if !knownOps[s.Op] {
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}

	switch s.Op {
	case OpAdvance:
		if _, err := time.ParseDuration(s.Args.Duration); err != nil {
			return fmt.Errorf("steps[%d]: advance needs a duration: %w", index, err)
		}
	case OpSetPollActive:
		if s.Args.Active == nil {
			return fmt.Errorf("steps[%d]: active is required for set_poll_active", index)
		}
	}

	if s.Expect != nil {
		switch s.Expect.Error {
		case "", ErrValidation, ErrNotFound, ErrInvalidCredential:
		default:
			return fmt.Errorf("steps[%d].expect: unknown error kind %q", index, s.Expect.Error)
		}
		if s.Expect.Counted != nil && s.Op != OpCastVote {
			return fmt.Errorf("steps[%d].expect: counted only applies to cast_vote", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertViharPresent, AssertViharAbsent, AssertParticipants:
		if a.Vihar == "" {
			return fmt.Errorf("assertions[%d]: vihar is required for %s", index, a.Type)
		}
	case AssertViharStatus:
		if a.Vihar == "" {
			return fmt.Errorf("assertions[%d]: vihar is required for vihar_status", index)
		}
		if !model.ViharStatus(a.Status).Valid() {
			return fmt.Errorf("assertions[%d]: invalid status %q", index, a.Status)
		}
	case AssertPollPresent, AssertPollAbsent:
		if a.Poll == "" {
			return fmt.Errorf("assertions[%d]: poll is required for %s", index, a.Type)
		}
	case AssertOptionVotes:
		if a.Poll == "" || a.Option == "" {
			return fmt.Errorf("assertions[%d]: poll and option are required for option_votes", index)
		}
		if a.Votes == nil || *a.Votes < 0 {
			return fmt.Errorf("assertions[%d]: votes must be a non-negative count for option_votes", index)
		}
	case AssertHasVoted:
		if a.Poll == "" {
			return fmt.Errorf("assertions[%d]: poll is required for has_voted", index)
		}
		if a.Voted == nil {
			return fmt.Errorf("assertions[%d]: voted is required for has_voted", index)
		}
	case AssertNotificationCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for notification_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
