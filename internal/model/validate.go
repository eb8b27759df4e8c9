package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MinPollOptions is the smallest number of non-empty options a poll may have.
const MinPollOptions = 2

// NormalizeName trims surrounding whitespace and applies Unicode NFC so that
// visually identical names compare equal regardless of input encoding.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateVihar checks the fields an admin must supply when creating or
// editing a vihar. An empty status is accepted and means planned.
func ValidateVihar(v Vihar) error {
	required := []struct {
		field string
		value string
	}{
		{"title", v.Title},
		{"from", v.From},
		{"to", v.To},
		{"startDate", v.StartDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, "is required")
		}
	}
	if v.Status != "" && !v.Status.Valid() {
		return NewValidationError("status", "must be one of planned, ongoing, completed")
	}
	return nil
}

// NonEmptyOptions drops options whose text is blank and trims the rest.
func NonEmptyOptions(opts []PollOption) []PollOption {
	out := make([]PollOption, 0, len(opts))
	for _, o := range opts {
		text := strings.TrimSpace(o.Text)
		if text == "" {
			continue
		}
		o.Text = text
		out = append(out, o)
	}
	return out
}

// ValidatePoll checks the question and that at least MinPollOptions options
// carry text. Blank options are ignored rather than rejected.
func ValidatePoll(p Poll) error {
	if strings.TrimSpace(p.Question) == "" {
		return NewValidationError("question", "is required")
	}
	if len(NonEmptyOptions(p.Options)) < MinPollOptions {
		return NewValidationError("options", "please provide at least 2 options")
	}
	return nil
}
