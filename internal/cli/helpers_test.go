package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vihar/internal/ids"
	"github.com/roach88/vihar/internal/store"
	"github.com/roach88/vihar/internal/testutil"
	"github.com/roach88/vihar/internal/textgen"
)

// cliFixture runs commands against one in-memory store, as if the same
// user invoked the binary several times.
type cliFixture struct {
	t     *testing.T
	store *store.Memory
	clock *testutil.ManualClock
	ids   *ids.Sequence
	gen   textgen.Generator
	env   map[string]string
}

func newFixture(t *testing.T) *cliFixture {
	t.Helper()
	return &cliFixture{
		t:     t,
		store: store.NewMemory(),
		clock: testutil.NewManualClock(testutil.Epoch),
		ids:   ids.NewSequence("id"),
		env:   map[string]string{},
	}
}

func (f *cliFixture) options() *RootOptions {
	return &RootOptions{
		Store:     f.store,
		Generator: f.gen,
		Getenv:    func(k string) string { return f.env[k] },
		EnvFiles:  []string{},
		Clock:     f.clock,
		IDs:       f.ids,
	}
}

// exec runs the root command with args and returns stdout and stderr.
func (f *cliFixture) exec(args ...string) (string, string, error) {
	f.t.Helper()
	return executeWith(f.options(), args...)
}

// mustExec is exec that fails the test on a command error.
func (f *cliFixture) mustExec(args ...string) string {
	f.t.Helper()
	out, errOut, err := f.exec(args...)
	require.NoError(f.t, err, "stdout: %s\nstderr: %s", out, errOut)
	return out
}

func executeWith(opts *RootOptions, args ...string) (string, string, error) {
	cmd := NewRootCommandWithOptions(opts)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

type rawResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// decodeData parses a --format json response and decodes its data.
func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	var resp rawResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "ok", resp.Status, out)
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), out)
	return v
}

// decodeError parses a --format json error response.
func decodeError(t *testing.T, out string) *CLIError {
	t.Helper()
	var resp rawResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(t, "error", resp.Status, out)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func discardLogger() *slog.Logger {
	return testutil.DiscardLogger()
}
