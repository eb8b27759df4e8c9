// Package config loads application settings.
//
// Precedence, lowest first: built-in defaults, the YAML file, a .env file
// (which never overrides variables already set in the process), process
// environment, then CLI flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	// DriverMemory lives only as long as the process. A CLI invocation is
	// one process, so it suits tests rather than interactive use.
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// ValidDrivers lists the supported store drivers.
var ValidDrivers = []string{DriverMemory, DriverSQLite, DriverPostgres, DriverS3}

// Defaults.
const (
	DefaultAdminPIN = "JAIN"
	DefaultToastTTL = 5 * time.Second
	DefaultDBPath   = "vihar.db"
	DefaultModel    = "gemini-2.5-flash"
)

// Config is the full application configuration.
type Config struct {
	Store    StoreConfig   `yaml:"store"`
	AdminPIN string        `yaml:"admin_pin"`
	ToastTTL time.Duration `yaml:"toast_ttl"`
	TextGen  TextGenConfig `yaml:"textgen"`
}

// StoreConfig selects and parameterizes the durable store.
type StoreConfig struct {
	Driver string   `yaml:"driver"`
	Path   string   `yaml:"path"`
	DSN    string   `yaml:"dsn"`
	S3     S3Config `yaml:"s3"`
}

// S3Config configures the S3 driver.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// TextGenConfig configures the Gemini collaborator.
type TextGenConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:    StoreConfig{Driver: DriverSQLite, Path: DefaultDBPath},
		AdminPIN: DefaultAdminPIN,
		ToastTTL: DefaultToastTTL,
		TextGen:  TextGenConfig{Model: DefaultModel, Timeout: 15 * time.Second},
	}
}

// Options controls Load.
type Options struct {
	// File is an optional YAML file. A missing file is an error only when
	// it was named explicitly.
	File string

	// EnvFiles are loaded with godotenv before reading the environment.
	// Missing files are ignored. Nil means ".env".
	EnvFiles []string

	// Getenv reads environment variables. Nil means os.Getenv.
	Getenv func(string) string
}

// Load builds a Config from defaults, file and environment.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", opts.File, err)
		}
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.Store.Driver, "VIHAR_STORE_DRIVER")
	setString(&cfg.Store.Path, "VIHAR_DB_PATH")
	setString(&cfg.Store.DSN, "VIHAR_DATABASE_URL", "DATABASE_URL")
	setString(&cfg.Store.S3.Bucket, "VIHAR_S3_BUCKET")
	setString(&cfg.Store.S3.Region, "VIHAR_S3_REGION")
	setString(&cfg.Store.S3.Endpoint, "VIHAR_S3_ENDPOINT")
	setString(&cfg.Store.S3.Prefix, "VIHAR_S3_PREFIX")
	setString(&cfg.Store.S3.AccessKeyID, "VIHAR_S3_ACCESS_KEY_ID")
	setString(&cfg.Store.S3.SecretAccessKey, "VIHAR_S3_SECRET_ACCESS_KEY")
	setString(&cfg.AdminPIN, "VIHAR_ADMIN_PIN")
	setString(&cfg.TextGen.APIKey, "GEMINI_API_KEY", "API_KEY")
	setString(&cfg.TextGen.Model, "VIHAR_TEXTGEN_MODEL")

	if v := getenv("VIHAR_S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VIHAR_S3_PATH_STYLE: %w", err)
		}
		cfg.Store.S3.PathStyle = b
	}
	if v := getenv("VIHAR_TOAST_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("VIHAR_TOAST_TTL: %w", err)
		}
		cfg.ToastTTL = d
	}
	return nil
}

// Validate checks that the selected driver has what it needs.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Store.Driver) {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for the postgres driver"))
		}
	case DriverS3:
		if c.Store.S3.Bucket == "" {
			errs = append(errs, errors.New("store.s3.bucket is required for the s3 driver"))
		}
		if (c.Store.S3.AccessKeyID == "") != (c.Store.S3.SecretAccessKey == "") {
			errs = append(errs, errors.New("store.s3 access_key_id and secret_access_key must be set together"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (valid: %s)", c.Store.Driver, strings.Join(ValidDrivers, ", ")))
	}
	if c.AdminPIN == "" {
		errs = append(errs, errors.New("admin_pin must not be empty"))
	}
	if c.ToastTTL < 0 {
		errs = append(errs, errors.New("toast_ttl must not be negative"))
	}
	return errors.Join(errs...)
}
