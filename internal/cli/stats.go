package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/vihar/internal/app"
	"github.com/roach88/vihar/internal/ledger"
	"github.com/roach88/vihar/internal/model"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Metrics bool // print the store metrics in exposition format
}

// statsView summarises the community state.
type statsView struct {
	Vihars        map[model.ViharStatus]int `json:"vihars"`
	Participants  int                       `json:"participants"`
	ActivePolls   int                       `json:"activePolls"`
	ClosedPolls   int                       `json:"closedPolls"`
	VotesTotal    int                       `json:"votesTotal"`
	VotesByMe     int                       `json:"votesByMe"`
	Notifications int                       `json:"notifications"`
	Unread        int                       `json:"unread"`
	DeletedIDs    int                       `json:"deletedIds"`

	// StoreOps counts adapter calls made by this command, keyed "op/result".
	StoreOps map[string]float64 `json:"storeOps"`
}

func (v statsView) renderText(w io.Writer) {
	fmt.Fprintln(w, "Vihars")
	for _, s := range model.ValidStatuses {
		fmt.Fprintf(w, "  %-10s %d\n", s, v.Vihars[s])
	}
	fmt.Fprintf(w, "  %-10s %s\n", "yatris", humanize.Comma(int64(v.Participants)))
	fmt.Fprintln(w, "Polls")
	fmt.Fprintf(w, "  %-10s %d\n", "open", v.ActivePolls)
	fmt.Fprintf(w, "  %-10s %d\n", "closed", v.ClosedPolls)
	fmt.Fprintf(w, "  %-10s %s (%d mine)\n", "votes", humanize.Comma(int64(v.VotesTotal)), v.VotesByMe)
	fmt.Fprintf(w, "Notifications: %d (%d unread)\n", v.Notifications, v.Unread)
	fmt.Fprintf(w, "Deleted IDs:   %d\n", v.DeletedIDs)
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise vihars, polls and store activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, env *Env, a *app.App) error {
				view := collectStats(ctx, env, a)
				if err := env.Out.Success(view); err != nil {
					return err
				}
				if opts.Metrics && env.Out.Format != "json" {
					return writeMetrics(env)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "also print store metrics in Prometheus text format")
	return cmd
}

func collectStats(ctx context.Context, env *Env, a *app.App) statsView {
	v := statsView{
		Vihars:   make(map[model.ViharStatus]int),
		StoreOps: make(map[string]float64),
	}
	for _, x := range a.ListVihars() {
		v.Vihars[x.Status]++
		v.Participants += len(x.Participants)
	}
	for _, p := range a.ListPolls() {
		if p.IsActive {
			v.ActivePolls++
		} else {
			v.ClosedPolls++
		}
		v.VotesTotal += p.TotalVotes()
		if a.HasVoted(p.ID) {
			v.VotesByMe++
		}
	}
	v.Notifications = len(a.ListNotifications())
	v.Unread = a.UnreadCount()
	v.DeletedIDs = len(ledger.NewDeletions(env.Logger).IDs(ctx, env.Store))

	families, err := env.Registry.Gather()
	if err != nil {
		env.Logger.Warn("failed to gather metrics", "error", err)
		return v
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var parts []string
			for _, l := range m.GetLabel() {
				parts = append(parts, l.GetValue())
			}
			v.StoreOps[strings.Join(parts, "/")] = m.GetCounter().GetValue()
		}
	}
	return v
}

func writeMetrics(env *Env) error {
	families, err := env.Registry.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	fmt.Fprintln(env.Out.Writer)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(env.Out.Writer, mf); err != nil {
			return err
		}
	}
	return nil
}
