package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/source"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to tokenscan!")
	fmt.Println()
	if sessions, err := source.DiscoverSessions(cfg.ProjectsDir()); err == nil && len(sessions) > 0 {
		fmt.Printf("  Found %d sessions (%d subagent transcripts) in %s\n\n",
			len(sessions), source.CountSubagents(sessions), cfg.ProjectsDir())
	}

	projectsDir := cfg.General.ProjectsDir
	summary := cfg.General.Summary
	cacheEnabled := cfg.Cache.Enabled

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Projects directory").
				Description("Root directory holding session transcripts. Leave blank for the default.").
				Placeholder(config.DefaultProjectsDir()).
				Value(&projectsDir),
			huh.NewConfirm().
				Title("Show only the summary table by default?").
				Value(&summary),
			huh.NewConfirm().
				Title("Enable the parse cache?").
				Description("Caches per-transcript totals in SQLite so repeat scans skip unchanged files.").
				Value(&cacheEnabled),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return err
	}

	cfg.General.ProjectsDir = strings.TrimSpace(projectsDir)
	cfg.General.Summary = summary
	cfg.Cache.Enabled = cacheEnabled

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `tokenscan setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
