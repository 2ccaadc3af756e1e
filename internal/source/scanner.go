package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// subagentsDirName is the marker subdirectory that qualifies a project
	// subdirectory as a session.
	subagentsDirName = "subagents"

	// agentFilePattern matches sub-task transcript filenames.
	agentFilePattern = "agent-*.jsonl"
)

// ErrRootNotFound indicates the scan root directory does not exist.
var ErrRootNotFound = errors.New("directory not found")

// DiscoverSessions enumerates the immediate subdirectories of root in
// lexicographic order and returns one Session per directory that carries the
// subagents marker. A missing root is an error; a root with no qualifying
// sessions returns an empty slice.
func DiscoverSessions(root string) ([]Session, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var sessions []Session
	for _, e := range entries {
		if !e.IsDir() || !hasSubagents(root, e.Name()) {
			continue
		}
		sessions = append(sessions, scanSession(root, e.Name()))
	}

	return sessions, nil
}

// hasSubagents is the qualification predicate for session directories.
func hasSubagents(root, name string) bool {
	fi, err := os.Stat(filepath.Join(root, name, subagentsDirName))
	return err == nil && fi.IsDir()
}

// scanSession builds the descriptor for one qualifying session directory:
// the sibling <name>.jsonl main transcript (when present) and the sorted
// agent-*.jsonl files under subagents/. A subagents directory that vanishes
// between qualification and reading yields a session with no sub-tasks.
func scanSession(root, name string) Session {
	s := Session{ID: name}

	main := filepath.Join(root, name+".jsonl")
	if fi, err := os.Stat(main); err == nil && !fi.IsDir() {
		s.Transcript = main
	}

	subDir := filepath.Join(root, name, subagentsDirName)
	entries, err := os.ReadDir(subDir)
	if err != nil {
		return s
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(agentFilePattern, e.Name()); !ok {
			continue
		}
		s.Subagents = append(s.Subagents, Subagent{
			AgentID: AgentIDFromPath(e.Name()),
			Path:    filepath.Join(subDir, e.Name()),
		})
	}

	return s
}

// CountSubagents returns the total number of sub-task transcripts across a
// set of discovered sessions.
func CountSubagents(sessions []Session) int {
	n := 0
	for _, s := range sessions {
		n += len(s.Subagents)
	}
	return n
}
