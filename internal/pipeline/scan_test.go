package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/model"
	"github.com/theirongolddev/tokenscan/internal/source"
	"github.com/theirongolddev/tokenscan/internal/store"
)

// usageLine builds a transcript line carrying the four counters.
func usageLine(in, out, cc, cr int64) string {
	return fmt.Sprintf(`{"message":{"usage":{"input_tokens":%d,"output_tokens":%d,"cache_creation_input_tokens":%d,"cache_read_input_tokens":%d}}}`,
		in, out, cc, cr)
}

// infoLine builds a transcript first line with metadata and a task.
func infoLine(sessionID, task string) string {
	return fmt.Sprintf(`{"sessionId":%q,"gitBranch":"main","message":{"role":"user","content":%q}}`, sessionID, task)
}

// writeAgent creates subagents/<file> under a session directory.
func writeAgent(t *testing.T, root, session, file string, lines ...string) {
	t.Helper()
	dir := filepath.Join(root, session, "subagents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScan_AggregatesSubagentsInOrder(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "sess-b", "agent-z.jsonl",
		infoLine("sess-b", "cleanup pass"),
		usageLine(5, 5, 0, 0),
	)
	writeAgent(t, root, "sess-a", "agent-2.jsonl",
		infoLine("sess-a", "later task"),
		usageLine(10, 20, 30, 40),
	)
	writeAgent(t, root, "sess-a", "agent-1.jsonl",
		infoLine("sess-a", "Fix #12: zone records"),
		usageLine(100, 50, 0, 0),
		`malformed line`,
		usageLine(1, 1, 1, 1),
	)

	res, err := Scan(root, config.DefaultTiers(), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	rows := res.Subagents()
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	// Discovery order: sess-a before sess-b, agent-1 before agent-2.
	if rows[0].AgentID != "1" || rows[1].AgentID != "2" || rows[2].AgentID != "z" {
		t.Errorf("row order = %s,%s,%s, want 1,2,z", rows[0].AgentID, rows[1].AgentID, rows[2].AgentID)
	}

	want := model.UsageRecord{Input: 101, Output: 51, CacheCreation: 1, CacheRead: 1}
	if rows[0].Usage != want {
		t.Errorf("agent-1 usage = %+v, want %+v", rows[0].Usage, want)
	}
	if rows[0].Issue != "12" {
		t.Errorf("agent-1 issue = %q, want 12", rows[0].Issue)
	}
	if rows[1].Issue != "" {
		t.Errorf("agent-2 issue = %q, want empty", rows[1].Issue)
	}

	tiers := config.DefaultTiers()
	if got, wantCost := rows[0].CheapCost, tiers.Cheap.Cost(want); got != wantCost {
		t.Errorf("CheapCost = %v, want %v", got, wantCost)
	}
	if got, wantCost := rows[0].PremiumCost, tiers.Premium.Cost(want); got != wantCost {
		t.Errorf("PremiumCost = %v, want %v", got, wantCost)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"), config.DefaultTiers(), Options{})
	if !errors.Is(err, source.ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestScan_NoSessions(t *testing.T) {
	res, err := Scan(t.TempDir(), config.DefaultTiers(), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Sessions) != 0 {
		t.Errorf("len(Sessions) = %d, want 0", len(res.Sessions))
	}
}

func TestScan_CacheRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "sess-a", "agent-1.jsonl",
		infoLine("sess-a", "Fix #3"),
		usageLine(100, 50, 20, 30),
	)
	writeAgent(t, root, "sess-a", "agent-2.jsonl",
		infoLine("sess-a", "no issue here"),
		usageLine(1, 2, 3, 4),
	)

	cache, err := store.Open(filepath.Join(t.TempDir(), "parse.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = cache.Close() }()

	tiers := config.DefaultTiers()
	first, err := Scan(root, tiers, Options{Cache: cache})
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	if first.Parsed != 2 || first.CacheHits != 0 {
		t.Errorf("first scan: Parsed=%d CacheHits=%d, want 2/0", first.Parsed, first.CacheHits)
	}

	second, err := Scan(root, tiers, Options{Cache: cache})
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if second.Parsed != 0 || second.CacheHits != 2 {
		t.Errorf("second scan: Parsed=%d CacheHits=%d, want 0/2", second.Parsed, second.CacheHits)
	}

	// Cached results must be indistinguishable from fresh parses.
	a, b := first.Subagents(), second.Subagents()
	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestScan_CacheStaleAfterChange(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "sess-a", "agent-1.jsonl",
		infoLine("sess-a", "task"),
		usageLine(100, 50, 0, 0),
	)

	cache, err := store.Open(filepath.Join(t.TempDir(), "parse.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = cache.Close() }()

	tiers := config.DefaultTiers()
	if _, err := Scan(root, tiers, Options{Cache: cache}); err != nil {
		t.Fatalf("first Scan: %v", err)
	}

	// Rewrite with different content (size changes, entry goes stale).
	writeAgent(t, root, "sess-a", "agent-1.jsonl",
		infoLine("sess-a", "task"),
		usageLine(100, 50, 0, 0),
		usageLine(900, 0, 0, 0),
	)

	res, err := Scan(root, tiers, Options{Cache: cache})
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if res.Parsed != 1 || res.CacheHits != 0 {
		t.Errorf("after change: Parsed=%d CacheHits=%d, want 1/0", res.Parsed, res.CacheHits)
	}
	if got := res.Subagents()[0].Usage.Input; got != 1000 {
		t.Errorf("Input after reparse = %d, want 1000", got)
	}
}

func TestScan_ReportsProgress(t *testing.T) {
	root := t.TempDir()
	writeAgent(t, root, "sess-a", "agent-1.jsonl", usageLine(1, 1, 0, 0))
	writeAgent(t, root, "sess-a", "agent-2.jsonl", usageLine(1, 1, 0, 0))
	writeAgent(t, root, "sess-b", "agent-1.jsonl", usageLine(1, 1, 0, 0))

	var calls [][2]int
	progress := func(current, total int) {
		calls = append(calls, [2]int{current, total})
	}

	if _, err := Scan(root, config.DefaultTiers(), Options{Progress: progress}); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("progress calls = %d, want 3", len(calls))
	}
	for i, c := range calls {
		if c[0] != i+1 || c[1] != 3 {
			t.Errorf("call %d = (%d,%d), want (%d,3)", i, c[0], c[1], i+1)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent-7.jsonl")
	content := infoLine("sess-x", "Fix #9") + "\n" + usageLine(10, 5, 2, 3) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	usage, info, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if want := (model.UsageRecord{Input: 10, Output: 5, CacheCreation: 2, CacheRead: 3}); usage != want {
		t.Errorf("usage = %+v, want %+v", usage, want)
	}
	if info.SessionID != "sess-x" {
		t.Errorf("SessionID = %q, want sess-x", info.SessionID)
	}

	if _, _, err := LoadFile(filepath.Join(dir, "missing.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func BenchmarkScan(b *testing.B) {
	root := b.TempDir()
	var lines []string
	lines = append(lines, infoLine("bench", "Fix #1: benchmark fixture"))
	for i := 0; i < 200; i++ {
		lines = append(lines, usageLine(1000, 500, 200, 4000))
	}
	content := strings.Join(lines, "\n") + "\n"

	for s := 0; s < 4; s++ {
		for a := 0; a < 3; a++ {
			dir := filepath.Join(root, fmt.Sprintf("sess-%d", s), "subagents")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				b.Fatal(err)
			}
			path := filepath.Join(dir, fmt.Sprintf("agent-%d.jsonl", a))
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				b.Fatal(err)
			}
		}
	}

	tiers := config.DefaultTiers()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Scan(root, tiers, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
