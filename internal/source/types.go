package source

import "encoding/json"

// RawEntry is the subset of a transcript line that tokenscan reads.
type RawEntry struct {
	SessionID string      `json:"sessionId,omitempty"`
	AgentID   string      `json:"agentId,omitempty"`
	Slug      string      `json:"slug,omitempty"`
	GitBranch string      `json:"gitBranch,omitempty"`
	Message   *RawMessage `json:"message,omitempty"`
}

// RawMessage is a message envelope carrying role, content, and usage.
// Content stays raw: it is a plain string for user prompts but an array of
// content blocks for tool results, and only the string form is ever read.
type RawMessage struct {
	Role    string          `json:"role,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
	Usage   *RawUsage       `json:"usage,omitempty"`
}

// RawUsage holds token counts reported for one exchange.
type RawUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// Session describes one discovered session directory: its main transcript
// (empty if the sibling file is missing) and the sub-task transcripts found
// under its subagents directory, in filename order.
type Session struct {
	ID         string
	Transcript string
	Subagents  []Subagent
}

// Subagent is a sub-task transcript owned by a session.
type Subagent struct {
	AgentID string
	Path    string
}
