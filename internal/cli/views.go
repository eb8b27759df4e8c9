package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roach88/vihar/internal/model"
)

// message is a plain confirmation.
type message string

func (m message) renderText(w io.Writer) {
	fmt.Fprintln(w, string(m))
}

type userView struct {
	User *model.User `json:"user"`
}

func (v userView) renderText(w io.Writer) {
	if v.User == nil {
		fmt.Fprintln(w, "Not logged in.")
		return
	}
	fmt.Fprintf(w, "%s (%s) id=%s\n", v.User.Name, v.User.Role, v.User.ID)
}

type viharList struct {
	Vihars []model.Vihar `json:"vihars"`
}

func (v viharList) renderText(w io.Writer) {
	if len(v.Vihars) == 0 {
		fmt.Fprintln(w, "No vihars.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tROUTE\tSTART\tSTATUS\tYATRIS")
	for _, x := range v.Vihars {
		fmt.Fprintf(tw, "%s\t%s\t%s -> %s\t%s\t%s\t%d\n",
			x.ID, x.Title, x.From, x.To, x.StartDate, x.Status, len(x.Participants))
	}
	tw.Flush()
}

type viharView struct {
	Vihar model.Vihar `json:"vihar"`
}

func (v viharView) renderText(w io.Writer) {
	x := v.Vihar
	fmt.Fprintf(w, "%s [%s]\n", x.Title, x.Status)
	fmt.Fprintf(w, "  id:     %s\n", x.ID)
	fmt.Fprintf(w, "  route:  %s -> %s\n", x.From, x.To)
	fmt.Fprintf(w, "  starts: %s\n", x.StartDate)
	if x.Description != "" {
		fmt.Fprintf(w, "  %s\n", x.Description)
	}
	if len(x.Participants) > 0 {
		fmt.Fprintf(w, "  yatris: %s\n", strings.Join(x.Participants, ", "))
	}
}

type descriptionView struct {
	ViharID     string `json:"viharId,omitempty"`
	Description string `json:"description"`
	Saved       bool   `json:"saved"`
}

func (v descriptionView) renderText(w io.Writer) {
	fmt.Fprintln(w, v.Description)
	if v.Saved {
		fmt.Fprintf(w, "(saved to %s)\n", v.ViharID)
	}
}

type pollList struct {
	Polls []model.Poll `json:"polls"`

	// Votes maps poll ID to the option this profile chose.
	Votes map[string]string `json:"votes"`
}

func (v pollList) renderText(w io.Writer) {
	if len(v.Polls) == 0 {
		fmt.Fprintln(w, "No polls.")
		return
	}
	for i, p := range v.Polls {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderPoll(w, p, v.Votes[p.ID])
	}
}

type voteView struct {
	Poll    model.Poll `json:"poll"`
	Counted bool       `json:"counted"`
	Choice  string     `json:"choice"`
}

func (v voteView) renderText(w io.Writer) {
	if v.Counted {
		fmt.Fprintln(w, "Vote counted.")
	} else {
		fmt.Fprintln(w, "You have already voted on this poll; nothing changed.")
	}
	renderPoll(w, v.Poll, v.Choice)
}

type pollView struct {
	Poll model.Poll `json:"poll"`
}

func (v pollView) renderText(w io.Writer) {
	renderPoll(w, v.Poll, "")
}

func renderPoll(w io.Writer, p model.Poll, choice string) {
	state := "open"
	if !p.IsActive {
		state = "closed"
	}
	fmt.Fprintf(w, "%s [%s] id=%s\n", p.Question, state, p.ID)
	for _, o := range p.Options {
		mark := " "
		if o.ID == choice {
			mark = "*"
		}
		fmt.Fprintf(w, " %s %3d%% %4d  %s (%s)\n", mark, p.Percent(o.ID), o.Votes, o.Text, o.ID)
	}
	fmt.Fprintf(w, "   %s votes\n", humanize.Comma(int64(p.TotalVotes())))
}

type notificationList struct {
	Notifications []model.AppNotification `json:"notifications"`
	Unread        int                     `json:"unread"`

	now time.Time
}

func (v notificationList) renderText(w io.Writer) {
	if len(v.Notifications) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return
	}
	fmt.Fprintf(w, "%d unread\n", v.Unread)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range v.Notifications {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		when := humanize.RelTime(time.UnixMilli(n.Timestamp), v.now, "ago", "from now")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, n.ID, when, n.Title, n.Message)
	}
	tw.Flush()
}

type quoteView struct {
	Quote string `json:"quote"`
}

func (v quoteView) renderText(w io.Writer) {
	fmt.Fprintln(w, v.Quote)
}

type seedView struct {
	Wiped  bool `json:"wiped"`
	Vihars int  `json:"vihars"`
	Polls  int  `json:"polls"`
}

func (v seedView) renderText(w io.Writer) {
	verb := "Re-ran seeding"
	if v.Wiped {
		verb = "Wiped collections and re-ran seeding"
	}
	fmt.Fprintf(w, "%s: %d vihars, %d polls visible.\n", verb, v.Vihars, v.Polls)
}
