package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [path]",
	Short: "Browse scan results interactively",
	Long: "Open an interactive browser over the scanned sessions: pick a session\n" +
		"to inspect its subagents, or flip to the summary table with 's'.",
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Force TrueColor profile so all background styling produces ANSI codes.
	// Without this, lipgloss may default to Ascii profile (no colors).
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.New(resolveRoot(args, cfg), cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("view error: %w", err)
	}

	return nil
}
