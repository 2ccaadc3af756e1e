// Package model defines domain types for tokenscan transcripts and usage.
package model

// UsageRecord holds the four token counters accumulated from one transcript.
// Absent fields in source data count as 0; counters only ever grow while a
// file is being scanned.
type UsageRecord struct {
	Input         int64
	Output        int64
	CacheCreation int64
	CacheRead     int64
}

// Add accumulates another record's counters into u.
func (u *UsageRecord) Add(other UsageRecord) {
	u.Input += other.Input
	u.Output += other.Output
	u.CacheCreation += other.CacheCreation
	u.CacheRead += other.CacheRead
}

// TotalInput returns all input-side tokens: direct plus both cache categories.
func (u UsageRecord) TotalInput() int64 {
	return u.Input + u.CacheCreation + u.CacheRead
}

// Total returns input-side tokens plus output tokens.
func (u UsageRecord) Total() int64 {
	return u.TotalInput() + u.Output
}

// IsZero reports whether no tokens were recorded at all.
func (u UsageRecord) IsZero() bool {
	return u.Input == 0 && u.Output == 0 && u.CacheCreation == 0 && u.CacheRead == 0
}
