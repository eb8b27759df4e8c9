package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/ids"
	"github.com/roach88/vihar/internal/store"
	"github.com/roach88/vihar/internal/textgen"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Driver     string
	DBPath     string

	// Test seams. Zero values select the configured production collaborators.
	Store     store.Adapter       // used instead of opening the configured driver
	Generator textgen.Generator   // used instead of Gemini
	Getenv    func(string) string // used instead of os.Getenv
	EnvFiles  []string            // .env files to load; nil means ".env"
	Clock     ids.Clock
	IDs       ids.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vihar CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts, so tests
// can pre-set the seams before flags are parsed.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vihar",
		Short: "Hum Chale Vihar - community pilgrimages and polls",
		Long: `Plan and join vihars (pilgrimage walks), run community polls and
follow notifications, from the command line.

State lives in a key-value store selected with --driver (sqlite, postgres
or s3). The memory driver keeps nothing between invocations, so a login
does not carry over to the next command; it is meant for tests. Settings
come from --config, a .env file and VIHAR_* environment variables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "store driver (sqlite|postgres|s3; memory is per-invocation, for tests)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the SQLite database")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewViharCommand(opts))
	cmd.AddCommand(NewPollCommand(opts))
	cmd.AddCommand(NewNotifyCommand(opts))
	cmd.AddCommand(NewQuoteCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
