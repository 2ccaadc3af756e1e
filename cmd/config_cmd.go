// Package cmd implements the tokenscan CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Projects directory: %s\n", cfg.ProjectsDir())
	fmt.Printf("    Summary only:       %v\n", cfg.General.Summary)
	fmt.Printf("    Quiet:              %v\n", cfg.General.Quiet)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Enabled: %v\n", cfg.Cache.Enabled)
	fmt.Printf("    Path:    %s\n", cfg.CachePath())
	fmt.Println()

	tiers := cfg.Tiers()
	fmt.Println("  [Pricing]  (USD per 1M tokens)")
	fmt.Printf("    %-8s in %.2f  out %.2f  cache-read %.2f  cache-write %.2f\n",
		tiers.Cheap.Name, tiers.Cheap.Input, tiers.Cheap.Output, tiers.Cheap.CacheRead, tiers.Cheap.CacheWrite)
	fmt.Printf("    %-8s in %.2f  out %.2f  (cache folded into input)\n",
		tiers.Premium.Name, tiers.Premium.Input, tiers.Premium.Output)
	fmt.Println()

	fmt.Println("  Run `tokenscan setup` to reconfigure.")
	return nil
}
