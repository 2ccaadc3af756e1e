package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/pipeline"
	"github.com/theirongolddev/tokenscan/internal/report"
	"github.com/theirongolddev/tokenscan/internal/source"
	"github.com/theirongolddev/tokenscan/internal/store"
)

var (
	flagSummary     bool
	flagQuiet       bool
	flagNoCache     bool
	flagProjectsDir string
)

var rootCmd = &cobra.Command{
	Use:   "tokenscan [path]",
	Short: "Token usage accounting for Claude Code transcripts",
	Long: "Aggregate token usage and cost estimates from session transcripts:\n" +
		"a single transcript file, or a project directory of sessions with subagents.",
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().StringVarP(&flagProjectsDir, "projects-dir", "d", "", "Projects directory (default from config)")
	rootCmd.Flags().BoolVar(&flagSummary, "summary", false, "Show only the summary table")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// A .jsonl path means a single transcript, not a project root.
	if len(args) == 1 && strings.HasSuffix(args[0], ".jsonl") {
		return runSingleFile(cmd.OutOrStdout(), args[0])
	}

	root := resolveRoot(args, cfg)
	res, err := loadScan(root, cfg, flagQuiet || cfg.General.Quiet)
	if err != nil {
		return err
	}

	report.Render(cmd.OutOrStdout(), res, report.Options{
		SummaryOnly: flagSummary || cfg.General.Summary,
	})
	return nil
}

// runSingleFile aggregates one transcript and writes its usage block.
func runSingleFile(w io.Writer, path string) error {
	usage, info, err := pipeline.LoadFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, report.AgentComment(source.AgentIDFromPath(path), usage, info.Branch))
	return nil
}

// resolveRoot picks the scan root: explicit argument, then the
// --projects-dir flag, then the configured default.
func resolveRoot(args []string, cfg config.Config) string {
	if len(args) == 1 {
		return args[0]
	}
	if flagProjectsDir != "" {
		return flagProjectsDir
	}
	return cfg.ProjectsDir()
}

// loadScan is the shared scan path used by the root and totals commands.
// Uses the SQLite parse cache when available for fast subsequent runs.
func loadScan(root string, cfg config.Config, quiet bool) (*pipeline.Result, error) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "  Scanning sessions...\n")
	}

	progressFn := func(current, total int) {
		if quiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}

	tiers := cfg.Tiers()
	opts := pipeline.Options{Progress: progressFn}

	// Try the cache unless disabled; open failures fall back to full parse.
	if !flagNoCache && cfg.Cache.Enabled {
		cache, err := store.Open(cfg.CachePath())
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()
			opts.Cache = cache
		}
	}

	res, err := pipeline.Scan(root, tiers, opts)
	if err != nil {
		return nil, err
	}

	if !quiet && res.CacheHits+res.Parsed > 0 {
		if res.CacheHits > 0 {
			fmt.Fprintf(os.Stderr, "\r  %d cached + %d parsed (%d sessions)    \n",
				res.CacheHits, res.Parsed, len(res.Sessions))
		} else {
			fmt.Fprintf(os.Stderr, "\r  Parsed %d transcripts (%d sessions)    \n",
				res.Parsed, len(res.Sessions))
		}
	}

	return res, nil
}
