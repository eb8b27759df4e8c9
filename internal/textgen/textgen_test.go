package textgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vihar/internal/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDailyQuote(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
		want string
	}{
		{
			name: "success is trimmed",
			gen: GeneratorFunc(func(context.Context, string) (string, error) {
				return "  Live and let live.\n", nil
			}),
			want: "Live and let live.",
		},
		{
			name: "error falls back",
			gen: GeneratorFunc(func(context.Context, string) (string, error) {
				return "", errors.New("401 unauthenticated")
			}),
			want: FallbackQuote,
		},
		{
			name: "blank falls back",
			gen: GeneratorFunc(func(context.Context, string) (string, error) {
				return "   ", nil
			}),
			want: FallbackQuote,
		},
		{
			name: "no generator falls back",
			want: FallbackQuote,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.gen, WithLogger(discard))
			assert.Equal(t, tt.want, s.DailyQuote(context.Background()))
		})
	}
}

func TestDailyQuote_UsesQuotePrompt(t *testing.T) {
	var got string
	s := NewService(GeneratorFunc(func(_ context.Context, p string) (string, error) {
		got = p
		return "ok", nil
	}), WithLogger(discard))
	s.DailyQuote(context.Background())
	assert.Contains(t, got, "Jainism principles")
	assert.Contains(t, got, "under 30 words")
}

func TestEnhanceDescription(t *testing.T) {
	ctx := context.Background()
	var prompt string
	ok := NewService(GeneratorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "A peaceful walk.", nil
	}), WithLogger(discard))

	text, err := ok.EnhanceDescription(ctx, "Girnar Walk", "Junagadh", "Girnar")
	require.NoError(t, err)
	assert.Equal(t, "A peaceful walk.", text)
	assert.Equal(t, `Write a short, inviting description for a Jain Vihar (pilgrimage walk) titled "Girnar Walk" starting from Junagadh to Girnar. Mention peace and spiritual growth. Keep it under 50 words.`, prompt)

	failing := NewService(GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("network down")
	}), WithLogger(discard))
	text, err = failing.EnhanceDescription(ctx, "Girnar Walk", "Junagadh", "Girnar")
	require.NoError(t, err)
	assert.Equal(t, "Join us for a spiritual journey from Junagadh to Girnar. Let's walk together for peace.", text)
}

func TestEnhanceDescription_RequiresFields(t *testing.T) {
	s := NewService(nil, WithLogger(discard))
	_, err := s.EnhanceDescription(context.Background(), "T", "", "B")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestService_Timeout(t *testing.T) {
	s := NewService(GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), WithLogger(discard), WithTimeout(10*time.Millisecond))

	assert.Equal(t, FallbackQuote, s.DailyQuote(context.Background()))
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	require.Error(t, err)
}

func TestDispatch_AppliesWhileAlive(t *testing.T) {
	s := NewScope()
	var got atomic.Value
	started := Dispatch(s, func() string { return "quote" }, func(v string) { got.Store(v) })
	require.True(t, started)
	s.Wait()
	assert.Equal(t, "quote", got.Load())
}

func TestDispatch_DiscardsAfterClose(t *testing.T) {
	s := NewScope()
	release := make(chan struct{})
	var applied atomic.Bool

	Dispatch(s, func() string {
		<-release
		return "stale"
	}, func(string) { applied.Store(true) })

	s.Close()
	close(release)
	s.Wait()

	assert.False(t, applied.Load(), "result from an abandoned scope must not be applied")
	assert.False(t, s.Alive())
	assert.False(t, Dispatch(s, func() int { return 1 }, func(int) {}), "closed scope starts nothing")
}
