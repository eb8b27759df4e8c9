package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/seed"
	"github.com/roach88/vihar/internal/store"
)

// NewSeedCommand creates the seed command group.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Manage the default data",
	}
	cmd.AddCommand(newSeedResetCommand(rootOpts))
	return cmd
}

func newSeedResetCommand(rootOpts *RootOptions) *cobra.Command {
	var wipe bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the initialization flag and seed again (admin)",
		Long: `Clear the initialization flag and run seeding again.

Seeding only fills collections that are absent, so without --wipe this
changes nothing unless a collection was never written. --wipe removes the
vihar and poll collections first. Permanently deleted IDs stay deleted
either way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rootOpts, func(ctx context.Context, env *Env) error {
				a, err := env.App(ctx)
				if err != nil {
					return err
				}
				if err := requireAdmin(a); err != nil {
					return err
				}

				err = store.Atomically(ctx, env.Store, func(tx store.Adapter) error {
					if wipe {
						for _, key := range []string{store.KeyVihars, store.KeyPolls} {
							if err := tx.Remove(ctx, key); err != nil {
								return err
							}
						}
					}
					return seed.ResetFlag(ctx, tx)
				})
				if err != nil {
					return err
				}

				policy, err := env.Seeder()
				if err != nil {
					return err
				}
				if err := policy.EnsureInitialized(ctx, env.Store); err != nil {
					return err
				}

				// Reload to report what is visible now.
				a, err = env.App(ctx)
				if err != nil {
					return err
				}
				return env.Out.Success(seedView{
					Wiped:  wipe,
					Vihars: len(a.ListVihars()),
					Polls:  len(a.ListPolls()),
				})
			})
		},
	}
	cmd.Flags().BoolVar(&wipe, "wipe", false, "remove the vihar and poll collections before seeding")
	return cmd
}
