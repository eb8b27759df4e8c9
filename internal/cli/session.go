package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/model"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Role string
	PIN  string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login [name]",
		Short: "Start a session",
		Long: `Start a session as a member or, with the admin PIN, as an admin.

An empty name becomes "Yatri" for members and "Admin" for admins.

Examples:
  vihar login Asha
  vihar login --role admin --pin JAIN`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return run(cmd, rootOpts, func(ctx context.Context, env *Env) error {
				a, err := env.App(ctx)
				if err != nil {
					return err
				}
				u, err := a.Login(ctx, name, model.Role(opts.Role), opts.PIN)
				if err != nil {
					return err
				}
				return env.Out.Success(userView{User: &u})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", string(model.RoleUser), "session role (user|admin)")
	cmd.Flags().StringVar(&opts.PIN, "pin", "", "admin PIN (required for --role admin)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rootOpts, func(ctx context.Context, env *Env) error {
				a, err := env.App(ctx)
				if err != nil {
					return err
				}
				a.Logout(ctx)
				return env.Out.Success(message("Logged out."))
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, rootOpts, func(ctx context.Context, env *Env) error {
				a, err := env.App(ctx)
				if err != nil {
					return err
				}
				v := userView{}
				if u, ok := a.CurrentUser(); ok {
					v.User = &u
				}
				return env.Out.Success(v)
			})
		},
	}
}

// requireUser returns the session user or errLoginRequired.
func requireUser(a *app.App) (model.User, error) {
	u, ok := a.CurrentUser()
	if !ok {
		return model.User{}, errLoginRequired
	}
	return u, nil
}

// requireAdmin gates management commands. This is a presentation check,
// not a security boundary: anyone with store access can change the data.
func requireAdmin(a *app.App) error {
	if u, ok := a.CurrentUser(); !ok || !u.IsAdmin() {
		return errAdminRequired
	}
	return nil
}
