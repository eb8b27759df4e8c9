package model

import "math"

// Role distinguishes administrators from regular members.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the session identity created at login.
// It is never versioned; each login overwrites the stored session record.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the user may manage vihars and polls.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ViharStatus is the lifecycle stage of a vihar.
// Any status may be set directly; transitions are not enforced.
type ViharStatus string

const (
	StatusPlanned   ViharStatus = "planned"
	StatusOngoing   ViharStatus = "ongoing"
	StatusCompleted ViharStatus = "completed"
)

// ValidStatuses lists the allowed vihar statuses in lifecycle order.
var ValidStatuses = []ViharStatus{StatusPlanned, StatusOngoing, StatusCompleted}

// Valid reports whether s is a known status.
func (s ViharStatus) Valid() bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Vihar is a pilgrimage event.
type Vihar struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	StartDate    string      `json:"startDate"`
	Status       ViharStatus `json:"status"`
	Participants []string    `json:"participants,omitempty"`
}

// Clone returns a copy that shares no slices with v.
func (v Vihar) Clone() Vihar {
	cp := v
	if v.Participants != nil {
		cp.Participants = append([]string(nil), v.Participants...)
	}
	return cp
}

// HasParticipant reports whether name is on the roster.
func (v Vihar) HasParticipant(name string) bool {
	name = NormalizeName(name)
	for _, p := range v.Participants {
		if NormalizeName(p) == name {
			return true
		}
	}
	return false
}

// PollOption is one answer of a poll with its vote counter.
type PollOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// Poll is a community question with ordered options.
type Poll struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	IsActive bool         `json:"isActive"`
	Options  []PollOption `json:"options"`
}

// Clone returns a copy that shares no slices with p.
func (p Poll) Clone() Poll {
	cp := p
	cp.Options = append([]PollOption(nil), p.Options...)
	return cp
}

// Option returns the option with the given ID.
func (p Poll) Option(id string) (PollOption, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return PollOption{}, false
}

// TotalVotes sums the vote counters of all options.
func (p Poll) TotalVotes() int {
	total := 0
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// Percent returns the rounded share of votes held by the option,
// or 0 when no votes have been cast.
func (p Poll) Percent(optionID string) int {
	total := p.TotalVotes()
	if total == 0 {
		return 0
	}
	o, ok := p.Option(optionID)
	if !ok {
		return 0
	}
	return int(math.Round(float64(o.Votes) / float64(total) * 100))
}

// NotificationType tags which part of the app a notification concerns.
type NotificationType string

const (
	NotifyVihar NotificationType = "vihar"
	NotifyPoll  NotificationType = "poll"
	NotifyInfo  NotificationType = "info"
)

// AppNotification is an in-app message. Timestamp is Unix milliseconds.
type AppNotification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Timestamp int64            `json:"timestamp"`
	Read      bool             `json:"read"`
}
