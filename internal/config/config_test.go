package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "JAIN", cfg.AdminPIN)
	assert.Equal(t, 5*time.Second, cfg.ToastTTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.TextGen.Model)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "vihar.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
store:
  driver: postgres
  dsn: postgres://file/db
admin_pin: OM
toast_ttl: 2s
textgen:
  model: gemini-x
`), 0o644))

	cfg, err := Load(Options{
		File:     file,
		EnvFiles: []string{},
		Getenv: envMap(map[string]string{
			"VIHAR_DATABASE_URL": "postgres://env/db",
			"API_KEY":            "k-fallback",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://env/db", cfg.Store.DSN, "environment overrides the file")
	assert.Equal(t, "OM", cfg.AdminPIN)
	assert.Equal(t, 2*time.Second, cfg.ToastTTL)
	assert.Equal(t, "gemini-x", cfg.TextGen.Model)
	assert.Equal(t, "k-fallback", cfg.TextGen.APIKey)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("stroe:\n  driver: memory\n"), 0o644))

	_, err := Load(Options{File: file, EnvFiles: []string{}, Getenv: envMap(nil)})
	require.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	cfg, err := Load(Options{File: file, EnvFiles: []string{}, Getenv: envMap(nil)})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(Options{File: "/nonexistent/vihar.yaml", EnvFiles: []string{}})
	require.Error(t, err)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VIHAR_TEST_DOTENV_PIN=FROMFILE\nVIHAR_TEST_DOTENV_SET=FROMFILE\n"), 0o644))

	t.Setenv("VIHAR_TEST_DOTENV_SET", "FROMPROCESS")
	_, err := Load(Options{EnvFiles: []string{envFile}, Getenv: envMap(nil)})
	require.NoError(t, err)

	assert.Equal(t, "FROMFILE", os.Getenv("VIHAR_TEST_DOTENV_PIN"))
	assert.Equal(t, "FROMPROCESS", os.Getenv("VIHAR_TEST_DOTENV_SET"))
	os.Unsetenv("VIHAR_TEST_DOTENV_PIN")
}

func TestLoad_BadEnvValues(t *testing.T) {
	_, err := Load(Options{EnvFiles: []string{}, Getenv: envMap(map[string]string{"VIHAR_TOAST_TTL": "soon"})})
	require.Error(t, err)

	_, err = Load(Options{EnvFiles: []string{}, Getenv: envMap(map[string]string{"VIHAR_S3_PATH_STYLE": "maybe"})})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "memory", mutate: func(c *Config) { c.Store.Driver = DriverMemory }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Store.Path = "" }, wantErr: "store.path"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = DriverPostgres }, wantErr: "store.dsn"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Store.Driver = DriverS3 }, wantErr: "store.s3.bucket"},
		{name: "s3 with bucket", mutate: func(c *Config) { c.Store.Driver = DriverS3; c.Store.S3.Bucket = "b" }},
		{name: "s3 with half credentials", mutate: func(c *Config) {
			c.Store.Driver = DriverS3
			c.Store.S3.Bucket = "b"
			c.Store.S3.AccessKeyID = "AKIA"
		}, wantErr: "must be set together"},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: "unknown store driver"},
		{name: "empty pin", mutate: func(c *Config) { c.AdminPIN = "" }, wantErr: "admin_pin"},
		{name: "negative ttl", mutate: func(c *Config) { c.ToastTTL = -time.Second }, wantErr: "toast_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
