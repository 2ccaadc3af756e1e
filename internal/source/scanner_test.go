package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeProjectFile creates a file (and parent dirs) under a project root.
func writeProjectFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"sessionId":"s"}`+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverSessions_MissingRoot(t *testing.T) {
	_, err := DiscoverSessions(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestDiscoverSessions_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "rootfile")
	if err := os.WriteFile(root, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := DiscoverSessions(root)
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("err = %v, want ErrRootNotFound", err)
	}
}

func TestDiscoverSessions_EmptyRoot(t *testing.T) {
	sessions, err := DiscoverSessions(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("len(sessions) = %d, want 0", len(sessions))
	}
}

func TestDiscoverSessions_MarkerQualification(t *testing.T) {
	root := t.TempDir()

	// Qualifies: has a subagents directory.
	writeProjectFile(t, root, "sess-b", "subagents", "agent-1.jsonl")
	// Does not qualify: no subagents directory.
	if err := os.MkdirAll(filepath.Join(root, "sess-a", "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Does not qualify: subagents is a plain file.
	writeProjectFile(t, root, "sess-c", "subagents")
	// Plain files in the root are ignored.
	writeProjectFile(t, root, "stray.jsonl")

	sessions, err := DiscoverSessions(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	if sessions[0].ID != "sess-b" {
		t.Errorf("session ID = %q, want sess-b", sessions[0].ID)
	}
}

func TestDiscoverSessions_SessionOrder(t *testing.T) {
	root := t.TempDir()
	for _, id := range []string{"zz-last", "aa-first", "mm-middle"} {
		writeProjectFile(t, root, id, "subagents", "agent-1.jsonl")
	}

	sessions, err := DiscoverSessions(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"aa-first", "mm-middle", "zz-last"}
	if len(sessions) != len(want) {
		t.Fatalf("len(sessions) = %d, want %d", len(sessions), len(want))
	}
	for i, id := range want {
		if sessions[i].ID != id {
			t.Errorf("sessions[%d].ID = %q, want %q", i, sessions[i].ID, id)
		}
	}
}

func TestDiscoverSessions_MainTranscript(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "sess-1", "subagents", "agent-1.jsonl")
	mainPath := writeProjectFile(t, root, "sess-1.jsonl")
	writeProjectFile(t, root, "sess-2", "subagents", "agent-1.jsonl")
	// sess-2 has no sibling transcript.

	sessions, err := DiscoverSessions(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}

	if sessions[0].Transcript != mainPath {
		t.Errorf("sess-1 Transcript = %q, want %q", sessions[0].Transcript, mainPath)
	}
	if sessions[1].Transcript != "" {
		t.Errorf("sess-2 Transcript = %q, want empty", sessions[1].Transcript)
	}
}

func TestDiscoverSessions_SubagentOrderAndIDs(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "sess-1", "subagents", "agent-c9.jsonl")
	writeProjectFile(t, root, "sess-1", "subagents", "agent-a1.jsonl")
	writeProjectFile(t, root, "sess-1", "subagents", "agent-b5.jsonl")
	// Non-matching entries are skipped.
	writeProjectFile(t, root, "sess-1", "subagents", "notes.txt")
	if err := os.MkdirAll(filepath.Join(root, "sess-1", "subagents", "agent-dir.jsonl"), 0o755); err != nil {
		t.Fatal(err)
	}

	sessions, err := DiscoverSessions(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}

	want := []string{"a1", "b5", "c9"}
	subs := sessions[0].Subagents
	if len(subs) != len(want) {
		t.Fatalf("len(Subagents) = %d, want %d", len(subs), len(want))
	}
	for i, id := range want {
		if subs[i].AgentID != id {
			t.Errorf("Subagents[%d].AgentID = %q, want %q", i, subs[i].AgentID, id)
		}
	}
}

func TestCountSubagents(t *testing.T) {
	sessions := []Session{
		{ID: "a", Subagents: []Subagent{{AgentID: "1"}, {AgentID: "2"}}},
		{ID: "b"},
		{ID: "c", Subagents: []Subagent{{AgentID: "3"}}},
	}
	if got := CountSubagents(sessions); got != 3 {
		t.Errorf("CountSubagents = %d, want 3", got)
	}
}
