package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/cli"
	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the SQLite parse cache",
	RunE:  runCacheStats,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and location",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached parse results",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.CachePath()
	fmt.Printf("  Cache: %s\n", path)

	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Println("  Status: empty (no cache file)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}

	cache, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	n, err := cache.Count()
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}
	fmt.Printf("  Entries: %d\n", n)
	fmt.Printf("  Size: %s bytes\n", cli.FormatNumber(fi.Size()))
	fmt.Printf("  Last write: %s ago\n", cli.FormatDuration(int64(time.Since(fi.ModTime()).Seconds())))
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.CachePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("  Cache is already empty.")
		return nil
	}

	cache, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	n, _ := cache.Count()
	if err := cache.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Printf("  Cleared %d cached entries.\n", n)
	return nil
}
