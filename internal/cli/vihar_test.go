package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vihar/internal/model"
	"github.com/roach88/vihar/internal/textgen"
)

func loginAdmin(t *testing.T, f *cliFixture) {
	t.Helper()
	f.mustExec("login", "Guru", "--role", "admin", "--pin", "JAIN")
}

func TestViharList_Seeded(t *testing.T) {
	f := newFixture(t)

	v := decodeData[viharList](t, f.mustExec("vihar", "list", "--format", "json"))
	require.Len(t, v.Vihars, 1)
	assert.Equal(t, "default-vihar-1", v.Vihars[0].ID)

	out := f.mustExec("vihar", "list")
	assert.Contains(t, out, "Shikharji Yatra")
	assert.Contains(t, out, "Madhuban -> Parasnath Hill")

	v = decodeData[viharList](t, f.mustExec("vihar", "list", "--ongoing", "--format", "json"))
	assert.Len(t, v.Vihars, 1)
}

func TestViharAdd(t *testing.T) {
	f := newFixture(t)
	loginAdmin(t, f)

	out, errOut, err := f.exec("vihar", "add",
		"--title", "Girnar Vihar", "--from", "Junagadh", "--to", "Girnar Hill", "--start", "2024-02-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Girnar Vihar [planned]")
	assert.Contains(t, out, "id:     id-2")
	assert.Contains(t, errOut, "[New Vihar Planned] Join the journey from Junagadh to Girnar Hill!")

	v := decodeData[viharList](t, f.mustExec("vihar", "list", "--format", "json"))
	require.Len(t, v.Vihars, 2)
	assert.Equal(t, "id-2", v.Vihars[0].ID, "newest first")
}

func TestViharAdd_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		admin bool
		args  []string
		code  string
	}{
		{
			name: "not admin",
			args: []string{"--title", "T", "--from", "A", "--to", "B", "--start", "2024-01-01"},
			code: CodeAdminRequired,
		},
		{
			name:  "missing title",
			admin: true,
			args:  []string{"--from", "A", "--to", "B", "--start", "2024-01-01"},
			code:  CodeValidation,
		},
		{
			name:  "bad status",
			admin: true,
			args:  []string{"--title", "T", "--from", "A", "--to", "B", "--start", "2024-01-01", "--status", "paused"},
			code:  CodeValidation,
		},
		{
			name:  "enhance validates first",
			admin: true,
			args:  []string{"--title", "T", "--to", "B", "--start", "2024-01-01", "--enhance"},
			code:  CodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.admin {
				loginAdmin(t, f)
			}
			args := append([]string{"vihar", "add", "--format", "json"}, tt.args...)
			out, _, err := f.exec(args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, decodeError(t, out).Code)
		})
	}
}

func TestViharAdd_Enhance(t *testing.T) {
	f := newFixture(t)
	var prompts []string
	f.gen = textgen.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "  Walk softly, see clearly.  ", nil
	})
	loginAdmin(t, f)

	v := decodeData[viharView](t, f.mustExec("vihar", "add", "--format", "json",
		"--title", "Girnar Vihar", "--from", "Junagadh", "--to", "Girnar Hill", "--start", "2024-02-10", "--enhance"))
	assert.Equal(t, "Walk softly, see clearly.", v.Vihar.Description)
	require.Len(t, prompts, 1)
	assert.Equal(t, textgen.DescriptionPrompt("Girnar Vihar", "Junagadh", "Girnar Hill"), prompts[0])
}

func TestViharEdit_OnlyChangedFlags(t *testing.T) {
	f := newFixture(t)
	loginAdmin(t, f)

	v := decodeData[viharView](t, f.mustExec("vihar", "edit", "default-vihar-1", "--title", "Shikharji Maha Yatra", "--format", "json"))
	assert.Equal(t, "Shikharji Maha Yatra", v.Vihar.Title)
	assert.Equal(t, "Madhuban", v.Vihar.From)
	assert.Equal(t, model.StatusOngoing, v.Vihar.Status)

	out, _, err := f.exec("vihar", "edit", "nope", "--title", "X", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, decodeError(t, out).Code)
}

func TestViharStatus(t *testing.T) {
	f := newFixture(t)
	loginAdmin(t, f)

	_, errOut, err := f.exec("vihar", "status", "default-vihar-1", "completed")
	require.NoError(t, err)
	assert.Contains(t, errOut, "[Vihar Status Updated] Shikharji Yatra is now completed.")

	v := decodeData[viharList](t, f.mustExec("vihar", "list", "--ongoing", "--format", "json"))
	assert.Empty(t, v.Vihars)

	out, _, err := f.exec("vihar", "status", "default-vihar-1", "paused", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, decodeError(t, out).Code)
}

func TestViharJoinLeave(t *testing.T) {
	f := newFixture(t)

	out, _, err := f.exec("vihar", "join", "default-vihar-1", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, CodeLoginRequired, decodeError(t, out).Code)

	f.mustExec("login", "Asha")
	v := decodeData[viharView](t, f.mustExec("vihar", "join", "default-vihar-1", "--format", "json"))
	assert.Equal(t, []string{"Asha"}, v.Vihar.Participants)

	v = decodeData[viharView](t, f.mustExec("vihar", "join", "default-vihar-1", "--format", "json"))
	assert.Equal(t, []string{"Asha"}, v.Vihar.Participants, "joining twice is a no-op")

	v = decodeData[viharView](t, f.mustExec("vihar", "leave", "default-vihar-1", "--format", "json"))
	assert.Empty(t, v.Vihar.Participants)
}

func TestViharDescribe(t *testing.T) {
	t.Run("fallback without generator", func(t *testing.T) {
		f := newFixture(t)
		out := f.mustExec("vihar", "describe", "default-vihar-1")
		assert.Equal(t, textgen.FallbackDescription("Madhuban", "Parasnath Hill")+"\n", out)
	})

	t.Run("save requires admin", func(t *testing.T) {
		f := newFixture(t)
		out, _, err := f.exec("vihar", "describe", "default-vihar-1", "--save", "--format", "json")
		require.Error(t, err)
		assert.Equal(t, CodeAdminRequired, decodeError(t, out).Code)
	})

	t.Run("save stores the text", func(t *testing.T) {
		f := newFixture(t)
		f.gen = textgen.GeneratorFunc(func(context.Context, string) (string, error) {
			return "Peace with every step.", nil
		})
		loginAdmin(t, f)

		d := decodeData[descriptionView](t, f.mustExec("vihar", "describe", "default-vihar-1", "--save", "--format", "json"))
		assert.True(t, d.Saved)
		assert.Equal(t, "Peace with every step.", d.Description)

		v := decodeData[viharList](t, f.mustExec("vihar", "list", "--format", "json"))
		assert.Equal(t, "Peace with every step.", v.Vihars[0].Description)
	})
}

func TestViharDelete_StaysDeleted(t *testing.T) {
	f := newFixture(t)
	loginAdmin(t, f)

	_, errOut, err := f.exec("vihar", "delete", "default-vihar-1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "[Vihar Removed]")

	v := decodeData[viharList](t, f.mustExec("vihar", "list", "--format", "json"))
	assert.Empty(t, v.Vihars)

	s := decodeData[seedView](t, f.mustExec("seed", "reset", "--wipe", "--format", "json"))
	assert.True(t, s.Wiped)
	assert.Equal(t, 0, s.Vihars, "ledgered defaults are not seeded back")
	assert.Equal(t, 1, s.Polls)

	out, _, err := f.exec("vihar", "add", "--id", "default-vihar-1", "--format", "json",
		"--title", "T", "--from", "A", "--to", "B", "--start", "2024-01-01")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, decodeError(t, out).Code, "deleted IDs are never reused")
}
