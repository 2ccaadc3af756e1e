// zonepush adds DNS records captured by a zone scan to a bunny.net zone.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tokenscan/internal/dnszone"
)

var (
	flagZone       int64
	flagScan       string
	flagMaxRecords int
	flagDryRun     bool
	flagAPIKey     string
)

var rootCmd = &cobra.Command{
	Use:   "zonepush --zone <id>",
	Short: "Push scanned DNS records to a bunny.net zone",
	Long: "Reads a zone scan capture (raw curl log or clean JSON), converts the\n" +
		"discovered records into add-record requests, and pushes them to the zone.",
	RunE: run,
}

func init() {
	rootCmd.Flags().Int64Var(&flagZone, "zone", 0, "Target zone ID")
	rootCmd.Flags().StringVar(&flagScan, "scan", "", "Scan capture file (default: stdin)")
	rootCmd.Flags().IntVar(&flagMaxRecords, "max-records", 5, "Maximum number of records to add")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "List records without pushing them")
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "API key (default: BUNNY_API_KEY)")
	_ = rootCmd.MarkFlagRequired("zone")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	data, err := readScanInput(flagScan)
	if err != nil {
		return err
	}

	scan, err := dnszone.ExtractScan(data)
	if err != nil {
		return err
	}

	if len(scan.Records) == 0 {
		fmt.Println("No records found in scan results.")
		return nil
	}

	n := len(scan.Records)
	if n > flagMaxRecords {
		n = flagMaxRecords
	}
	if n < 0 {
		n = 0
	}
	fmt.Printf("Found %d records in scan, adding first %d\n\n", len(scan.Records), n)

	if flagDryRun {
		for i, rec := range scan.Records[:n] {
			fmt.Printf("  %s\n", dnszone.RecordLabel(i, rec))
			fmt.Println("     would add (dry run)")
		}
		return nil
	}

	key := flagAPIKey
	if key == "" {
		key = os.Getenv("BUNNY_API_KEY")
	}
	client := dnszone.NewClient(key)
	if client == nil {
		return errors.New("API key required (--api-key or BUNNY_API_KEY)")
	}

	_, err = dnszone.PushRecords(context.Background(), client, flagZone, scan.Records, flagMaxRecords, os.Stdout)
	return err
}

func readScanInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scan file: %w", err)
	}
	return data, nil
}
