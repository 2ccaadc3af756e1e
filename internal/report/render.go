package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/tokenscan/internal/cli"
	"github.com/theirongolddev/tokenscan/internal/pipeline"
)

const bannerWidth = 70

// Options control scan report rendering.
type Options struct {
	// SummaryOnly suppresses the per-session breakdown and prints only the
	// aggregate table.
	SummaryOnly bool
}

// Render writes the scan report: per-session sub-task breakdowns (unless
// summary-only) followed by the aggregate table sorted by issue number.
func Render(w io.Writer, res *pipeline.Result, opts Options) {
	if len(res.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions with subagents found.")
		return
	}

	if !opts.SummaryOnly {
		for _, sess := range res.Sessions {
			renderSession(w, sess)
		}
	}

	rows := Rows(res)
	SortByIssue(rows)
	renderSummary(w, rows)
}

func renderSession(w io.Writer, sess pipeline.SessionUsage) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Session: %s\n", sess.Session.ID)
	fmt.Fprintln(w, rule)

	for _, sub := range sess.Subagents {
		u := sub.Usage
		fmt.Fprintf(w, "\n  Subagent %s\n", sub.AgentID)
		if sub.Issue != "" {
			fmt.Fprintf(w, "    Issue: #%s\n", sub.Issue)
		} else {
			fmt.Fprintln(w, "    Issue: N/A")
		}
		fmt.Fprintf(w, "    Branch: %s\n", sub.Info.Branch)
		fmt.Fprintf(w, "    Task: %s...\n", truncate(sub.Info.Task, 60))
		fmt.Fprintf(w, "    Input:  %10s (direct: %s, cache create: %s, cache read: %s)\n",
			cli.FormatNumber(u.TotalInput()),
			cli.FormatNumber(u.Input),
			cli.FormatNumber(u.CacheCreation),
			cli.FormatNumber(u.CacheRead))
		fmt.Fprintf(w, "    Output: %10s\n", cli.FormatNumber(u.Output))
		fmt.Fprintf(w, "    Total:  %10s\n", cli.FormatNumber(u.Total()))
		fmt.Fprintf(w, "    Cheap cost: $%.4f  (premium would be: $%.2f)\n",
			sub.CheapCost, sub.PremiumCost)
	}
}

func renderSummary(w io.Writer, rows []Row) {
	table := cli.Table{
		Title:   "SUMMARY: SUBAGENT TOKEN USAGE",
		Headers: []string{"Issue", "Agent", "Output", "Total", "Cheap $", "Premium $", "Saved"},
	}

	for _, r := range rows {
		issue := "N/A"
		if r.Issue != "" {
			issue = "#" + r.Issue
		}
		table.Rows = append(table.Rows, []string{
			issue,
			r.AgentID,
			cli.FormatNumber(r.Usage.Output),
			cli.FormatNumber(r.Usage.Total()),
			fmt.Sprintf("$%.4f", r.CheapCost),
			fmt.Sprintf("$%.2f", r.PremiumCost),
			fmt.Sprintf("$%.2f", r.Savings()),
		})
	}

	totals := TotalCosts(rows)
	table.Rows = append(table.Rows, []string{"---"})
	table.Rows = append(table.Rows, []string{
		"TOTAL",
		"",
		"",
		"",
		fmt.Sprintf("$%.2f", totals.Cheap),
		fmt.Sprintf("$%.2f", totals.Premium),
		fmt.Sprintf("$%.2f (%.0f%%)", totals.Savings(), totals.SavingsPercent()),
	})

	fmt.Fprintln(w)
	fmt.Fprint(w, cli.RenderTable(table))
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
