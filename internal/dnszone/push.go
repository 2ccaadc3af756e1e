package dnszone

import (
	"context"
	"fmt"
	"io"
)

// PushReport counts per-record outcomes of one push run.
type PushReport struct {
	Added  int
	Failed int
}

// PushRecords converts up to maxRecords scanned records into add-record
// requests and issues them against the zone, writing one status line per
// record to w. The returned error is non-nil when any record failed.
func PushRecords(ctx context.Context, c *Client, zoneID int64, records []ScanRecord, maxRecords int, w io.Writer) (PushReport, error) {
	n := len(records)
	if n > maxRecords {
		n = maxRecords
	}
	if n < 0 {
		n = 0
	}

	var rep PushReport
	for i, rec := range records[:n] {
		fmt.Fprintf(w, "  %s\n", RecordLabel(i, rec))

		created, err := c.AddRecord(ctx, zoneID, rec.AddRequest())
		switch {
		case err != nil:
			fmt.Fprintf(w, "     failed: %v\n", err)
			rep.Failed++
		case created.ID != 0:
			fmt.Fprintf(w, "     created record %d\n", created.ID)
			rep.Added++
		default:
			fmt.Fprintln(w, "     failed: response missing record id")
			rep.Failed++
		}
	}

	fmt.Fprintf(w, "\nSummary: %d added, %d failed\n", rep.Added, rep.Failed)
	if rep.Failed > 0 {
		return rep, fmt.Errorf("%d of %d records failed", rep.Failed, n)
	}
	return rep, nil
}

// RecordLabel formats one scanned record for listing output.
func RecordLabel(i int, r ScanRecord) string {
	name := r.Name
	if name == "" {
		name = "@"
	}
	return fmt.Sprintf("%d. %-6s %-20s -> %s", i+1, TypeName(r.Type), name, truncateValue(r.Value))
}

// truncateValue keeps listing lines short for long record values.
func truncateValue(v string) string {
	if len(v) > 40 {
		return v[:40] + "..."
	}
	return v
}
