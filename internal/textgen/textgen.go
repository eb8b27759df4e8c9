// Package textgen produces the daily quote and vihar descriptions.
//
// Generation is best effort. Any failure (no API key, network, auth, empty
// reply) is logged and replaced by fixed fallback text; callers never see an
// error from the model.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/vihar/internal/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// FallbackQuote is returned when quote generation fails.
const FallbackQuote = "Ahimsa Paramo Dharma - Non-violence is the supreme religion."

const quotePrompt = "Generate a short, inspiring daily quote based on Jainism principles like Ahimsa (Non-violence), Satya (Truth), or Anekantavada (Non-absolutism). Keep it under 30 words."

// ErrEmptyResponse is returned by generators that produced no text.
var ErrEmptyResponse = errors.New("empty response")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Service wraps a Generator with prompts and fallbacks.
type Service struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each generation call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service. A nil gen always yields fallbacks.
func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{gen: gen, timeout: 15 * time.Second, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DailyQuote returns a short quote, or FallbackQuote on any failure.
func (s *Service) DailyQuote(ctx context.Context) string {
	text, err := s.generate(ctx, quotePrompt)
	if err != nil {
		s.logger.Warn("failed to generate quote", "error", err)
		return FallbackQuote
	}
	return text
}

// EnhanceDescription writes an inviting description for a vihar. Empty
// inputs are a validation error; generation failures are not.
func (s *Service) EnhanceDescription(ctx context.Context, title, from, to string) (string, error) {
	for _, f := range []struct{ name, value string }{{"title", title}, {"from", from}, {"to", to}} {
		if strings.TrimSpace(f.value) == "" {
			return "", model.NewValidationError(f.name, "is required")
		}
	}
	text, err := s.generate(ctx, DescriptionPrompt(title, from, to))
	if err != nil {
		s.logger.Warn("failed to enhance description", "title", title, "error", err)
		return FallbackDescription(from, to), nil
	}
	return text, nil
}

// DescriptionPrompt builds the prompt for EnhanceDescription.
func DescriptionPrompt(title, from, to string) string {
	return fmt.Sprintf("Write a short, inviting description for a Jain Vihar (pilgrimage walk) titled \"%s\" starting from %s to %s. Mention peace and spiritual growth. Keep it under 50 words.", title, from, to)
}

// FallbackDescription is the templated description used when generation fails.
func FallbackDescription(from, to string) string {
	return fmt.Sprintf("Join us for a spiritual journey from %s to %s. Let's walk together for peace.", from, to)
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.gen == nil {
		return "", errors.New("no generator configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
