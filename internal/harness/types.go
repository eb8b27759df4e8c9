package harness

import "github.com/roach88/vihar/internal/model"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step met its expectation and every
	// assertion held.
	Pass bool `json:"pass"`

	// Errors describes each failed expectation or assertion.
	Errors []string `json:"errors,omitempty"`

	// Steps records what each step did, in order.
	Steps []StepOutcome `json:"steps"`

	// Final is the state after the last step.
	Final Snapshot `json:"final"`
}

// NewResult creates an empty, passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Steps:  []StepOutcome{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
}

// StepOutcome is the observed outcome of one step.
type StepOutcome struct {
	Op string `json:"op"`

	// Error is the error kind the step returned, or empty on success.
	Error string `json:"error,omitempty"`

	// Counted is set for cast_vote only.
	Counted *bool `json:"counted,omitempty"`
}

// Snapshot is the observable application state.
type Snapshot struct {
	User          *model.User             `json:"user"`
	Vihars        []model.Vihar           `json:"vihars"`
	Polls         []model.Poll            `json:"polls"`
	Votes         map[string]string       `json:"votes"`
	Notifications []model.AppNotification `json:"notifications"`
	DeletedIDs    []string                `json:"deletedIds"`
	Initialized   bool                    `json:"initialized"`
}
