package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/model"
)

// NewViharCommand creates the vihar command group.
func NewViharCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vihar",
		Short: "List, plan and join vihars",
	}

	cmd.AddCommand(newViharListCommand(rootOpts))
	cmd.AddCommand(newViharAddCommand(rootOpts))
	cmd.AddCommand(newViharEditCommand(rootOpts))
	cmd.AddCommand(newViharStatusCommand(rootOpts))
	cmd.AddCommand(newViharDeleteCommand(rootOpts))
	cmd.AddCommand(newViharRosterCommand(rootOpts, "join", "Join a vihar as the current user", (*app.App).JoinVihar))
	cmd.AddCommand(newViharRosterCommand(rootOpts, "leave", "Leave a vihar", (*app.App).LeaveVihar))
	cmd.AddCommand(newViharDescribeCommand(rootOpts))

	return cmd
}

// withApp runs fn with a loaded App.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, env *Env, a *app.App) error) error {
	return run(cmd, opts, func(ctx context.Context, env *Env) error {
		a, err := env.App(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, env, a); err != nil {
			return err
		}
		showToast(env, a)
		return nil
	})
}

// showToast prints the notification raised by this command, if any, to
// the diagnostic writer. JSON output stays clean.
func showToast(env *Env, a *app.App) {
	t, ok := a.Toast()
	if !ok || env.Out.Format == "json" {
		return
	}
	fmt.Fprintf(env.Out.GetErrWriter(), "[%s] %s\n", t.Notification.Title, t.Notification.Message)
	a.DismissToast()
}

// withAdmin is withApp behind the admin check.
func withAdmin(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, env *Env, a *app.App) error) error {
	return withApp(cmd, opts, func(ctx context.Context, env *Env, a *app.App) error {
		if err := requireAdmin(a); err != nil {
			return err
		}
		return fn(ctx, env, a)
	})
}

func newViharListCommand(rootOpts *RootOptions) *cobra.Command {
	var ongoing bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vihars, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				vihars := a.ListVihars()
				if ongoing {
					vihars = a.OngoingVihars()
				}
				if vihars == nil {
					vihars = []model.Vihar{}
				}
				return env.Out.Success(viharList{Vihars: vihars})
			})
		},
	}
	cmd.Flags().BoolVar(&ongoing, "ongoing", false, "only vihars currently underway")
	return cmd
}

// viharFlags are the editable fields of a vihar.
type viharFlags struct {
	ID          string
	Title       string
	Description string
	From        string
	To          string
	StartDate   string
	Status      string
	Enhance     bool
}

func (f *viharFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().StringVar(&f.ID, "id", "", "explicit ID (default: generated)")
	}
	cmd.Flags().StringVar(&f.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.From, "from", "", "starting point")
	cmd.Flags().StringVar(&f.To, "to", "", "destination")
	cmd.Flags().StringVar(&f.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Status, "status", "", "planned|ongoing|completed")
	cmd.Flags().BoolVar(&f.Enhance, "enhance", false, "generate the description from title and route")
}

// apply overlays the flags that were set onto v.
func (f *viharFlags) apply(cmd *cobra.Command, v model.Vihar) model.Vihar {
	set := func(name string, dst *string, val string) {
		if cmd.Flags().Changed(name) {
			*dst = val
		}
	}
	set("title", &v.Title, f.Title)
	set("description", &v.Description, f.Description)
	set("from", &v.From, f.From)
	set("to", &v.To, f.To)
	set("start", &v.StartDate, f.StartDate)
	if cmd.Flags().Changed("status") {
		v.Status = model.ViharStatus(f.Status)
	}
	return v
}

// enhance fills v.Description from the text generator. Validation runs
// first so the generator is not asked about an incomplete vihar.
func (f *viharFlags) enhance(ctx context.Context, env *Env, v model.Vihar) (model.Vihar, error) {
	if !f.Enhance {
		return v, nil
	}
	if err := model.ValidateVihar(v); err != nil {
		return v, err
	}
	desc, err := env.TextGen(ctx).EnhanceDescription(ctx, v.Title, v.From, v.To)
	if err != nil {
		return v, err
	}
	v.Description = desc
	return v, nil
}

func newViharAddCommand(rootOpts *RootOptions) *cobra.Command {
	f := &viharFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a new vihar (admin)",
		Long: `Plan a new vihar. Title, route and start date are required; the
status defaults to planned and the roster starts empty.

Example:
  vihar vihar add --title "Girnar Vihar" --from Junagadh --to "Girnar Hill" --start 2024-02-10 --enhance`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				v := f.apply(cmd, model.Vihar{ID: f.ID})
				v, err := f.enhance(ctx, env, v)
				if err != nil {
					return err
				}
				added, err := a.AddVihar(ctx, v)
				if err != nil {
					return err
				}
				return env.Out.Success(viharView{Vihar: added})
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newViharEditCommand(rootOpts *RootOptions) *cobra.Command {
	f := &viharFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a vihar (admin)",
		Long: `Edit a vihar. Only the flags given are changed. The roster is never
edited here; use join and leave.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				current, err := a.Vihar(args[0])
				if err != nil {
					return err
				}
				v, err := f.enhance(ctx, env, f.apply(cmd, current))
				if err != nil {
					return err
				}
				updated, err := a.UpdateVihar(ctx, v)
				if err != nil {
					return err
				}
				return env.Out.Success(viharView{Vihar: updated})
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func newViharStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <planned|ongoing|completed>",
		Short: "Move a vihar to another status (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				v, err := a.SetViharStatus(ctx, args[0], model.ViharStatus(args[1]))
				if err != nil {
					return err
				}
				return env.Out.Success(viharView{Vihar: v})
			})
		},
	}
}

func newViharDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a vihar (admin)",
		Long: `Permanently delete a vihar. The ID is recorded in the deletion ledger:
it will never be seeded back and cannot be reused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				if err := a.DeleteVihar(ctx, args[0]); err != nil {
					return err
				}
				return env.Out.Success(message("Deleted vihar " + args[0] + "."))
			})
		},
	}
}

type rosterOp func(a *app.App, ctx context.Context, id, name string) (model.Vihar, error)

func newViharRosterCommand(rootOpts *RootOptions, use, short string, op rosterOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				u, err := requireUser(a)
				if err != nil {
					return err
				}
				v, err := op(a, ctx, args[0], u.Name)
				if err != nil {
					return err
				}
				return env.Out.Success(viharView{Vihar: v})
			})
		},
	}
}

func newViharDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "describe <id>",
		Short: "Generate an inviting description for a vihar",
		Long: `Generate a description from the vihar's title and route. Without a
configured API key a fixed template is used. --save stores it (admin).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				if save {
					if err := requireAdmin(a); err != nil {
						return err
					}
				}
				v, err := a.Vihar(args[0])
				if err != nil {
					return err
				}
				desc, err := env.TextGen(ctx).EnhanceDescription(ctx, v.Title, v.From, v.To)
				if err != nil {
					return err
				}
				view := descriptionView{ViharID: v.ID, Description: desc}
				if save {
					v.Description = desc
					if _, err := a.UpdateVihar(ctx, v); err != nil {
						return err
					}
					view.Saved = true
				}
				return env.Out.Success(view)
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the generated description on the vihar")
	return cmd
}
