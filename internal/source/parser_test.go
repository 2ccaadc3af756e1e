package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/tokenscan/internal/model"
)

// writeTranscript creates a temp JSONL file from the given lines.
func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_SumsUsage(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"usage":{"input_tokens":100,"output_tokens":50,"cache_creation_input_tokens":200,"cache_read_input_tokens":300}}}`,
		`{"type":"assistant","message":{"usage":{"input_tokens":10,"output_tokens":5,"cache_creation_input_tokens":20,"cache_read_input_tokens":30}}}`,
	)

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := model.UsageRecord{Input: 110, Output: 55, CacheCreation: 220, CacheRead: 330}
	if got != want {
		t.Errorf("ParseFile = %+v, want %+v", got, want)
	}
}

func TestParseFile_MalformedLineSkipped(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"assistant","message":{"usage":{"input_tokens":100,"output_tokens":50}}}`,
		`not json at all`,
	)

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := model.UsageRecord{Input: 100, Output: 50}
	if got != want {
		t.Errorf("ParseFile = %+v, want %+v", got, want)
	}
}

func TestParseFile_LinesWithoutUsage(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","message":{"role":"user","content":"hello"}}`,
		`{"type":"system","subtype":"init"}`,
		`{"message":{}}`,
	)

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero record for usage-free transcript, got %+v", got)
	}
}

func TestParseFile_PartialUsageFieldsDefaultZero(t *testing.T) {
	path := writeTranscript(t,
		`{"message":{"usage":{"output_tokens":42}}}`,
	)

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := model.UsageRecord{Output: 42}
	if got != want {
		t.Errorf("ParseFile = %+v, want %+v", got, want)
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error on empty file: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero record for empty file, got %+v", got)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadInfo_FullMetadata(t *testing.T) {
	path := writeTranscript(t,
		`{"sessionId":"sess-1","agentId":"abc123","slug":"fix-zones","gitBranch":"feat/zones","message":{"role":"user","content":"Fix #42: empty zone handling\nMore detail below."}}`,
		`{"message":{"usage":{"input_tokens":1}}}`,
	)

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", info.SessionID)
	}
	if info.AgentID != "abc123" {
		t.Errorf("AgentID = %q, want abc123", info.AgentID)
	}
	if info.Slug != "fix-zones" {
		t.Errorf("Slug = %q, want fix-zones", info.Slug)
	}
	if info.Branch != "feat/zones" {
		t.Errorf("Branch = %q, want feat/zones", info.Branch)
	}
	if info.Task != "Fix #42: empty zone handling" {
		t.Errorf("Task = %q, want first line only", info.Task)
	}
}

func TestReadInfo_MalformedFirstLine(t *testing.T) {
	path := writeTranscript(t,
		`{broken`,
		`{"sessionId":"sess-1"}`,
	)

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != (model.AgentInfo{}) {
		t.Errorf("expected zero AgentInfo for malformed first line, got %+v", info)
	}
}

func TestReadInfo_MissingSessionIDDefaultsUnknown(t *testing.T) {
	path := writeTranscript(t,
		`{"gitBranch":"main"}`,
	)

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SessionID != "unknown" {
		t.Errorf("SessionID = %q, want unknown", info.SessionID)
	}
	if info.Branch != "main" {
		t.Errorf("Branch = %q, want main", info.Branch)
	}
}

func TestReadInfo_NonUserFirstRecord(t *testing.T) {
	path := writeTranscript(t,
		`{"sessionId":"s","message":{"role":"assistant","content":"I will start by..."}}`,
	)

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Task != "" {
		t.Errorf("Task = %q, want empty for non-user first record", info.Task)
	}
}

func TestReadInfo_ContentBlocksIgnored(t *testing.T) {
	path := writeTranscript(t,
		`{"sessionId":"s","message":{"role":"user","content":[{"type":"text","text":"structured"}]}}`,
	)

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Task != "" {
		t.Errorf("Task = %q, want empty for block content", info.Task)
	}
}

func TestReadInfo_TaskTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)
	path := writeTranscript(t,
		`{"sessionId":"s","message":{"role":"user","content":"`+long+`"}}`,
	)

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(info.Task) != model.MaxTaskLength {
		t.Errorf("len(Task) = %d, want %d", len(info.Task), model.MaxTaskLength)
	}
}

func TestReadInfo_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := ReadInfo(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != (model.AgentInfo{}) {
		t.Errorf("expected zero AgentInfo for empty file, got %+v", info)
	}
}

func TestAgentIDFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"agent file", "/tmp/subagents/agent-abc123.jsonl", "abc123"},
		{"agent file bare name", "agent-7f.jsonl", "7f"},
		{"main transcript", "/tmp/0199a9fc-4479.jsonl", "main"},
		{"no extension", "agent-55", "55"},
		{"plain name", "notes.jsonl", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgentIDFromPath(tt.path); got != tt.want {
				t.Errorf("AgentIDFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// FuzzParseUsageLine checks the per-line decoder never panics on arbitrary
// input, which matters since transcripts are untrusted.
func FuzzParseUsageLine(f *testing.F) {
	f.Add([]byte(`{"message":{"usage":{"input_tokens":100,"output_tokens":50}}}`))
	f.Add([]byte(`{"message":{"usage":{}}}`))
	f.Add([]byte(`{"message":{}}`))
	f.Add([]byte(`{"type":"user"}`))
	f.Add([]byte(`not json`))
	f.Add([]byte(`{}`))
	f.Add([]byte(``))
	f.Add([]byte(`{"message":{"usage":null}}`))
	f.Add([]byte(`{"message":{"usage":{"input_tokens":"oops"}}}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		u, ok := parseUsageLine(data)
		if !ok && !u.IsZero() {
			t.Errorf("rejected line returned non-zero usage: %+v", u)
		}
	})
}
