package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/model"
)

// NewPollCommand creates the poll command group.
func NewPollCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Run and vote on community polls",
	}

	cmd.AddCommand(newPollListCommand(rootOpts))
	cmd.AddCommand(newPollAddCommand(rootOpts))
	cmd.AddCommand(newPollEditCommand(rootOpts))
	cmd.AddCommand(newPollActiveCommand(rootOpts, "close", "Close a poll to voting (admin)", false))
	cmd.AddCommand(newPollActiveCommand(rootOpts, "open", "Reopen a closed poll (admin)", true))
	cmd.AddCommand(newPollDeleteCommand(rootOpts))
	cmd.AddCommand(newPollVoteCommand(rootOpts))

	return cmd
}

func newPollListCommand(rootOpts *RootOptions) *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List polls with their results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				polls := a.ListPolls()
				if active {
					polls = a.ActivePolls()
				}
				if polls == nil {
					polls = []model.Poll{}
				}
				votes := make(map[string]string)
				for _, p := range polls {
					if choice, ok := a.VoteChoice(p.ID); ok {
						votes[p.ID] = choice
					}
				}
				return env.Out.Success(pollList{Polls: polls, Votes: votes})
			})
		},
	}
	cmd.Flags().BoolVar(&active, "active", false, "only polls open for voting")
	return cmd
}

// parseOptions turns --option values into poll options. "id=text" keeps
// the given ID; a bare value is text only.
func parseOptions(values []string) []model.PollOption {
	opts := make([]model.PollOption, 0, len(values))
	for _, v := range values {
		o := model.PollOption{Text: v}
		if id, text, ok := strings.Cut(v, "="); ok && strings.TrimSpace(id) != "" && !strings.ContainsAny(id, " \t") {
			o = model.PollOption{ID: strings.TrimSpace(id), Text: text}
		}
		opts = append(opts, o)
	}
	return opts
}

func newPollAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		id       string
		question string
		options  []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a poll (admin)",
		Long: `Create a poll. It needs a question and at least two non-blank options.
New polls are open and every option starts at zero votes.

Example:
  vihar poll add --question "Which route for the spring vihar?" --option Palitana --option Girnar`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				p, err := a.AddPoll(ctx, model.Poll{
					ID:       id,
					Question: question,
					Options:  parseOptions(options),
				})
				if err != nil {
					return err
				}
				return env.Out.Success(pollView{Poll: p})
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "explicit ID (default: generated)")
	cmd.Flags().StringVar(&question, "question", "", "the question")
	cmd.Flags().StringArrayVar(&options, "option", nil, "an option, as text or id=text (repeatable)")
	return cmd
}

func newPollEditCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		question string
		options  []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a poll's question or options (admin)",
		Long: `Edit a poll. Passing --option replaces the option list: options named
by ID or unchanged text keep their votes, new options start at zero and
omitted options are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				p, err := a.Poll(args[0])
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("question") {
					p.Question = question
				}
				if cmd.Flags().Changed("option") {
					p.Options = parseOptions(options)
				}
				updated, err := a.UpdatePoll(ctx, p)
				if err != nil {
					return err
				}
				return env.Out.Success(pollView{Poll: updated})
			})
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "new question")
	cmd.Flags().StringArrayVar(&options, "option", nil, "an option, as text or id=text (repeatable)")
	return cmd
}

func newPollActiveCommand(rootOpts *RootOptions, use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				p, err := a.SetPollActive(ctx, args[0], active)
				if err != nil {
					return err
				}
				return env.Out.Success(pollView{Poll: p})
			})
		},
	}
}

func newPollDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete a poll (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				if err := a.DeletePoll(ctx, args[0]); err != nil {
					return err
				}
				return env.Out.Success(message("Deleted poll " + args[0] + "."))
			})
		},
	}
}

func newPollVoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <poll-id> <option-id>",
		Short: "Cast this profile's single vote on a poll",
		Long: `Cast a vote. Each profile votes at most once per poll; a second vote
is reported and ignored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				if _, err := requireUser(a); err != nil {
					return err
				}
				p, counted, err := a.CastVote(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				choice, _ := a.VoteChoice(p.ID)
				return env.Out.Success(voteView{Poll: p, Counted: counted, Choice: choice})
			})
		},
	}
}
