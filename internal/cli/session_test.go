package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWhoamiLogout(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Not logged in.\n", f.mustExec("whoami"))
	assert.Equal(t, "Asha (user) id=id-1\n", f.mustExec("login", "Asha"))

	v := decodeData[userView](t, f.mustExec("whoami", "--format", "json"))
	require.NotNil(t, v.User)
	assert.Equal(t, "Asha", v.User.Name)
	assert.Equal(t, "id-1", v.User.ID)

	assert.Equal(t, "Logged out.\n", f.mustExec("logout"))
	v = decodeData[userView](t, f.mustExec("whoami", "--format", "json"))
	assert.Nil(t, v.User)
}

func TestLogin_DefaultNames(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Yatri (user) id=id-1\n", f.mustExec("login"))
	assert.Equal(t, "Admin (admin) id=id-2\n", f.mustExec("login", "--role", "admin", "--pin", "JAIN"))
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"wrong pin", []string{"login", "Guru", "--role", "admin", "--pin", "nope"}, CodeInvalidCredential},
		{"unknown role", []string{"login", "Guru", "--role", "root"}, CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			out, _, err := f.exec(append(tt.args, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.True(t, IsReported(err))
			assert.Equal(t, tt.code, decodeError(t, out).Code)

			assert.Equal(t, "Not logged in.\n", f.mustExec("whoami"), "a rejected login leaves no session")
		})
	}
}

func TestLogin_ConfiguredPIN(t *testing.T) {
	f := newFixture(t)
	f.env["VIHAR_ADMIN_PIN"] = "1008"

	_, _, err := f.exec("login", "--role", "admin", "--pin", "JAIN")
	require.Error(t, err)
	f.mustExec("login", "--role", "admin", "--pin", "1008")
}
