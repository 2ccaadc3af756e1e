package model

import "regexp"

// MaxTaskLength bounds the task text captured from a transcript's first
// user message.
const MaxTaskLength = 100

// AgentInfo holds identifying metadata read from the first record of a
// transcript. Populated once per file; only SessionID is always set when the
// first line parses (it defaults to "unknown" if the field is missing).
type AgentInfo struct {
	SessionID string
	AgentID   string
	Slug      string
	Branch    string
	Task      string
}

var issueRe = regexp.MustCompile(`#(\d+)`)

// IssueNumber returns the digits of the first "#<digits>" match in a task
// description, or "" if there is none. Used for report ordering only.
func IssueNumber(task string) string {
	m := issueRe.FindStringSubmatch(task)
	if m == nil {
		return ""
	}
	return m[1]
}
