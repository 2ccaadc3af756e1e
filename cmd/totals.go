package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/cli"
	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/model"
	"github.com/theirongolddev/tokenscan/internal/report"
)

var totalsCmd = &cobra.Command{
	Use:   "totals [path]",
	Short: "Aggregate token and cost totals across all sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTotals,
}

func init() {
	rootCmd.AddCommand(totalsCmd)
}

func runTotals(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	res, err := loadScan(resolveRoot(args, cfg), cfg, flagQuiet || cfg.General.Quiet)
	if err != nil {
		return err
	}

	if len(res.Sessions) == 0 {
		fmt.Println("No sessions with subagents found.")
		return nil
	}

	subs := res.Subagents()
	var usage model.UsageRecord
	for _, sub := range subs {
		usage.Add(sub.Usage)
	}

	totals := report.TotalCosts(report.Rows(res))

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUBAGENT TOKEN TOTALS"))
	fmt.Println()

	table := cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Sessions", cli.FormatNumber(int64(len(res.Sessions)))},
			{"Subagents", cli.FormatNumber(int64(len(subs)))},
			{"---"},
			{"Input Tokens", cli.FormatTokens(usage.Input)},
			{"Cache Write", cli.FormatTokens(usage.CacheCreation)},
			{"Cache Read", cli.FormatTokens(usage.CacheRead)},
			{"Output Tokens", cli.FormatTokens(usage.Output)},
			{"Total Tokens", cli.FormatTokens(usage.Total())},
			{"---"},
			{"Cheap Cost", cli.FormatCost(totals.Cheap)},
			{"Premium Cost", cli.FormatCost(totals.Premium)},
			{"Savings", cli.FormatCost(totals.Savings())},
			{"Savings Rate", cli.FormatPercent(totals.SavingsPercent() / 100)},
		},
	}

	fmt.Print(cli.RenderTable(table))
	return nil
}
