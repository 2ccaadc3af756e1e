// Package report renders token usage reports: the per-agent markdown block
// for single transcripts and the session breakdown plus summary table for
// full project scans.
package report

import (
	"sort"
	"strconv"

	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/model"
	"github.com/theirongolddev/tokenscan/internal/pipeline"
)

// Row is one sub-task line in the summary table.
type Row struct {
	SessionID   string
	AgentID     string
	Issue       string // issue number digits, empty when the task has none
	Branch      string
	Task        string
	Usage       model.UsageRecord
	CheapCost   float64
	PremiumCost float64
}

// Savings is the premium-tier cost avoided by running on the cheap tier.
func (r Row) Savings() float64 {
	return r.PremiumCost - r.CheapCost
}

// Rows flattens a scan result into summary rows in discovery order.
func Rows(res *pipeline.Result) []Row {
	var rows []Row
	for _, sess := range res.Sessions {
		for _, sub := range sess.Subagents {
			rows = append(rows, Row{
				SessionID:   sess.Session.ID,
				AgentID:     sub.AgentID,
				Issue:       sub.Issue,
				Branch:      sub.Info.Branch,
				Task:        sub.Info.Task,
				Usage:       sub.Usage,
				CheapCost:   sub.CheapCost,
				PremiumCost: sub.PremiumCost,
			})
		}
	}
	return rows
}

// SortByIssue orders rows ascending by numeric issue number. Rows without an
// issue reference sort after all rows that have one. The sort is stable, so
// ties and no-issue rows keep their discovery order.
func SortByIssue(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		ni, oki := issueKey(rows[i].Issue)
		nj, okj := issueKey(rows[j].Issue)
		if oki && okj {
			return ni < nj
		}
		return oki && !okj
	})
}

// issueKey parses an issue reference for ordering. Unparseable values
// (including overflow) rank the row with the no-issue group.
func issueKey(issue string) (int64, bool) {
	if issue == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(issue, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Totals holds summed costs across all rows.
type Totals struct {
	Cheap   float64
	Premium float64
}

// TotalCosts sums both tiers across rows.
func TotalCosts(rows []Row) Totals {
	var t Totals
	for _, r := range rows {
		t.Cheap += r.CheapCost
		t.Premium += r.PremiumCost
	}
	return t
}

// Savings is the total premium-tier cost avoided.
func (t Totals) Savings() float64 {
	return t.Premium - t.Cheap
}

// SavingsPercent is the relative saving against the premium tier, 0 when no
// premium cost accrued.
func (t Totals) SavingsPercent() float64 {
	return config.SavingsPercent(t.Cheap, t.Premium)
}
