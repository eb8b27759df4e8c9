package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/config"
	"github.com/roach88/vihar/internal/ids"
	"github.com/roach88/vihar/internal/seed"
	"github.com/roach88/vihar/internal/store"
	"github.com/roach88/vihar/internal/store/pgstore"
	"github.com/roach88/vihar/internal/store/s3store"
	"github.com/roach88/vihar/internal/textgen"
)

var (
	errConfig = errors.New("configuration error")
	errStore  = errors.New("store unavailable")
)

// Env is everything a command needs, built from flags and configuration.
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Out      *OutputFormatter
	Registry *prometheus.Registry
	Store    store.Adapter // instrumented
	Clock    ids.Clock

	opts   *RootOptions
	closer io.Closer
}

// run builds an Env, hands it to fn and tears it down afterwards. Errors
// from fn are written through the formatter. The context is cancelled on
// SIGINT or SIGTERM.
func run(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, env *Env) error) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := openEnv(ctx, opts, out)
	if err != nil {
		return out.Fail(err)
	}
	defer env.Close()

	if err := fn(ctx, env); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Reported {
			return err
		}
		return out.Fail(err)
	}
	return nil
}

func openEnv(ctx context.Context, opts *RootOptions, out *OutputFormatter) (*Env, error) {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(out.GetErrWriter(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:   cfg,
		Logger:   logger,
		Out:      out,
		Registry: prometheus.NewRegistry(),
		Clock:    opts.Clock,
		opts:     opts,
	}
	if env.Clock == nil {
		env.Clock = ids.SystemClock{}
	}

	base := opts.Store
	if base == nil {
		logger.Debug("opening store", "driver", cfg.Store.Driver)
		base, env.closer, err = openAdapter(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errStore, err)
		}
	}
	env.Store = store.Instrument(base, store.NewMetrics(env.Registry))
	return env, nil
}

// loadConfig applies --config, the environment and then the --driver and
// --db flags, in that order.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(config.Options{
		File:     opts.ConfigFile,
		EnvFiles: opts.EnvFiles,
		Getenv:   opts.Getenv,
	})
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", errConfig, err)
	}
	if opts.Driver != "" {
		cfg.Store.Driver = opts.Driver
	}
	if opts.DBPath != "" {
		cfg.Store.Path = opts.DBPath
	}
	cfg.Store.Driver = strings.ToLower(cfg.Store.Driver)
	if opts.Store != nil {
		// An injected adapter needs no driver parameters.
		cfg.Store.Driver = config.DriverMemory
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", errConfig, err)
	}
	return cfg, nil
}

// openAdapter opens the configured backend. The closer is nil for
// backends without resources to release.
func openAdapter(ctx context.Context, sc config.StoreConfig) (store.Adapter, io.Closer, error) {
	switch sc.Driver {
	case config.DriverMemory:
		return store.NewMemory(), nil, nil
	case config.DriverSQLite:
		st, err := store.Open(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.DriverPostgres:
		st, err := pgstore.Open(ctx, sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.DriverS3:
		st, err := s3store.New(ctx, s3store.Config{
			Bucket:          sc.S3.Bucket,
			Region:          sc.S3.Region,
			Prefix:          sc.S3.Prefix,
			Endpoint:        sc.S3.Endpoint,
			AccessKeyID:     sc.S3.AccessKeyID,
			SecretAccessKey: sc.S3.SecretAccessKey,
			PathStyle:       sc.S3.PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return st, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// Close releases the store.
func (e *Env) Close() {
	if e.closer == nil {
		return
	}
	if err := e.closer.Close(); err != nil {
		e.Logger.Error("error closing store", "error", err)
	}
}

// App loads the application over the store, seeding it on first use.
func (e *Env) App(ctx context.Context) (*app.App, error) {
	return app.New(ctx, app.Deps{
		Store:    e.Store,
		Logger:   e.Logger,
		Clock:    e.Clock,
		IDs:      e.opts.IDs,
		AdminPIN: e.Config.AdminPIN,
		ToastTTL: e.Config.ToastTTL,
	})
}

// Seeder returns the seed policy used by App, for tooling that resets it.
func (e *Env) Seeder() (*seed.Policy, error) {
	d, err := seed.Builtin()
	if err != nil {
		return nil, err
	}
	return seed.NewPolicy(d, nil, e.Logger), nil
}

// TextGen returns the description and quote service. Without an API key
// every call yields the fallback text.
func (e *Env) TextGen(ctx context.Context) *textgen.Service {
	gen := e.opts.Generator
	if gen == nil && e.Config.TextGen.APIKey != "" {
		g, err := textgen.NewGemini(ctx, e.Config.TextGen.APIKey, e.Config.TextGen.Model)
		if err != nil {
			e.Logger.Warn("text generation unavailable", "error", err)
		} else {
			gen = g
		}
	}
	return textgen.NewService(gen,
		textgen.WithTimeout(e.Config.TextGen.Timeout),
		textgen.WithLogger(e.Logger))
}
