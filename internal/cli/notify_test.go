package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/textgen"
)

func TestNotifyListAndRead(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "No notifications.\n", f.mustExec("notify", "list"))

	loginAdmin(t, f)
	f.mustExec("poll", "add", "--question", "Which route?", "--option", "A", "--option", "B")
	f.clock.Advance(2 * time.Hour)
	f.mustExec("poll", "close", "id-2")

	l := decodeData[notificationList](t, f.mustExec("notify", "list", "--format", "json"))
	require.Len(t, l.Notifications, 2)
	assert.Equal(t, 2, l.Unread)
	assert.Equal(t, "Poll Closed", l.Notifications[0].Title, "most recent first")
	assert.Equal(t, model.NotifyPoll, l.Notifications[1].Type)

	out := f.mustExec("notify", "list")
	assert.Contains(t, out, "2 unread")
	assert.Contains(t, out, "2 hours ago")

	assert.Equal(t, "Marked id-5 read.\n", f.mustExec("notify", "read", "id-5"))
	l = decodeData[notificationList](t, f.mustExec("notify", "list", "--unread", "--format", "json"))
	require.Len(t, l.Notifications, 1)
	assert.Equal(t, 1, l.Unread)

	assert.Equal(t, "All notifications marked read.\n", f.mustExec("notify", "read"))
	l = decodeData[notificationList](t, f.mustExec("notify", "list", "--unread", "--format", "json"))
	assert.Empty(t, l.Notifications)
	assert.Equal(t, 0, l.Unread)

	out, _, err := f.exec("notify", "read", "nope", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, decodeError(t, out).Code)
}

func TestQuote(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, textgen.FallbackQuote+"\n", f.mustExec("quote"))
	})

	t.Run("generated", func(t *testing.T) {
		f := newFixture(t)
		f.gen = textgen.GeneratorFunc(func(context.Context, string) (string, error) {
			return "Live and let live.", nil
		})
		q := decodeData[quoteView](t, f.mustExec("quote", "--format", "json"))
		assert.Equal(t, "Live and let live.", q.Quote)
	})
}

func TestFetchQuote_CancelledContext(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	svc := textgen.NewService(textgen.GeneratorFunc(func(context.Context, string) (string, error) {
		<-release
		return "too late", nil
	}), textgen.WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, textgen.FallbackQuote, fetchQuote(ctx, svc))
}
