package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/model"
)

// NewNotifyCommand creates the notify command group.
func NewNotifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notify",
		Aliases: []string{"notifications"},
		Short:   "Read the notification feed",
	}
	cmd.AddCommand(newNotifyListCommand(rootOpts))
	cmd.AddCommand(newNotifyReadCommand(rootOpts))
	return cmd
}

func newNotifyListCommand(rootOpts *RootOptions) *cobra.Command {
	var unread bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				all := a.ListNotifications()
				shown := make([]model.AppNotification, 0, len(all))
				for _, n := range all {
					if unread && n.Read {
						continue
					}
					shown = append(shown, n)
				}
				return env.Out.Success(notificationList{
					Notifications: shown,
					Unread:        a.UnreadCount(),
					now:           env.Clock.Now(),
				})
			})
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	return cmd
}

func newNotifyReadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read [id]",
		Short: "Mark a notification read, or all of them without an ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				if err := a.MarkNotificationRead(ctx, id); err != nil {
					return err
				}
				if id == "" {
					return env.Out.Success(message("All notifications marked read."))
				}
				return env.Out.Success(message("Marked " + id + " read."))
			})
		},
	}
}
