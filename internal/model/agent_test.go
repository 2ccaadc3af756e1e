package model

import "testing"

func TestIssueNumber(t *testing.T) {
	tests := []struct {
		name string
		task string
		want string
	}{
		{"simple", "Fix #42: handle empty zones", "42"},
		{"first match wins", "Relates #7 and #8", "7"},
		{"no reference", "General cleanup of the parser", ""},
		{"bare hash", "Deploy # now", ""},
		{"hash at end", "See issue #", ""},
		{"leading text", "issue#123", "123"},
		{"multi digit", "Implement #10234 rate limiting", "10234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IssueNumber(tt.task); got != tt.want {
				t.Errorf("IssueNumber(%q) = %q, want %q", tt.task, got, tt.want)
			}
		})
	}
}
