// Package source discovers and parses Claude Code JSONL transcript files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/tokenscan/internal/model"
)

// patUsage prefilters lines before the full JSON decode. Any line carrying a
// message.usage object must contain this byte sequence.
var patUsage = []byte(`"usage"`)

// ParseFile reads a JSONL transcript and sums every usage event into one
// UsageRecord. Malformed lines and lines without a nested message.usage
// object are skipped; only opening or reading the file itself fails.
func ParseFile(path string) (model.UsageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.UsageRecord{}, err
	}
	defer func() { _ = f.Close() }()

	var totals model.UsageRecord

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.Contains(line, patUsage) {
			continue
		}
		if u, ok := parseUsageLine(line); ok {
			totals.Add(u)
		}
	}
	if err := scanner.Err(); err != nil {
		return totals, err
	}

	return totals, nil
}

// parseUsageLine decodes one transcript line and returns its usage counters.
// ok is false when the line is not valid JSON or carries no message.usage.
func parseUsageLine(line []byte) (model.UsageRecord, bool) {
	var entry RawEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return model.UsageRecord{}, false
	}
	if entry.Message == nil || entry.Message.Usage == nil {
		return model.UsageRecord{}, false
	}

	u := entry.Message.Usage
	return model.UsageRecord{
		Input:         u.InputTokens,
		Output:        u.OutputTokens,
		CacheCreation: u.CacheCreationInputTokens,
		CacheRead:     u.CacheReadInputTokens,
	}, true
}

// ReadInfo reads identifying metadata from the first line of a transcript.
// A first line that fails to decode yields a zero AgentInfo; the session ID
// defaults to "unknown" only when the line itself parses.
func ReadInfo(path string) (model.AgentInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.AgentInfo{}, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)
	if !scanner.Scan() {
		return model.AgentInfo{}, nil
	}

	return parseInfoLine(scanner.Bytes()), nil
}

// parseInfoLine extracts AgentInfo from a raw first transcript line.
func parseInfoLine(line []byte) model.AgentInfo {
	var entry RawEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return model.AgentInfo{}
	}

	info := model.AgentInfo{
		SessionID: entry.SessionID,
		AgentID:   entry.AgentID,
		Slug:      entry.Slug,
		Branch:    entry.GitBranch,
	}
	if info.SessionID == "" {
		info.SessionID = "unknown"
	}

	// The task description comes from the opening user prompt, and only when
	// its content is a plain string rather than content blocks.
	if entry.Message != nil && entry.Message.Role == "user" {
		var content string
		if err := json.Unmarshal(entry.Message.Content, &content); err == nil {
			info.Task = firstLine(content, model.MaxTaskLength)
		}
	}

	return info
}

// firstLine returns s up to the first newline, truncated to max runes.
func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		return string(r[:max])
	}
	return s
}

// AgentIDFromPath derives an agent identifier from a transcript filename.
// Files following the agent-<id>.jsonl convention yield <id>; any other
// filename is treated as a main transcript.
func AgentIDFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	if strings.Contains(stem, "agent-") {
		return strings.ReplaceAll(stem, "agent-", "")
	}
	return "main"
}
