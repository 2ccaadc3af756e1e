package config

import "github.com/theirongolddev/tokenscan/internal/model"

// Built-in tier names.
const (
	TierCheap   = "cheap"
	TierPremium = "premium"
)

// Tier holds per-million-token USD prices for one pricing tier. A blended
// tier folds cache traffic into the input category at the input rate; a
// per-category tier prices cache reads and writes separately.
type Tier struct {
	Name       string
	Input      float64
	Output     float64
	CacheRead  float64
	CacheWrite float64
	Blended    bool
}

// Tiers is the pricing table a scan prices against. Loaded once at startup
// and immutable for the process lifetime.
type Tiers struct {
	Cheap   Tier
	Premium Tier
}

// DefaultTiers returns the built-in pricing table: Haiku 3.5-class prices
// for the cheap tier (cache reads at a 90% discount, cache writes at a 25%
// premium) and Opus 4-class prices for the premium tier.
func DefaultTiers() Tiers {
	return Tiers{
		Cheap: Tier{
			Name:   TierCheap,
			Input:  0.80,
			Output: 4.00,
			// 90% discount and 25% premium relative to the input rate.
			CacheRead:  0.08,
			CacheWrite: 1.00,
		},
		Premium: Tier{
			Name:   TierPremium,
			Input:  15.00,
			Output: 75.00,
			// Listed for completeness; the blended formula prices all
			// input-side tokens at the input rate.
			CacheRead:  1.50,
			CacheWrite: 18.75,
			Blended:    true,
		},
	}
}

// Cost computes the estimated USD cost of a usage record under this tier.
func (t Tier) Cost(u model.UsageRecord) float64 {
	if t.Blended {
		cost := float64(u.TotalInput()) * t.Input / 1_000_000
		cost += float64(u.Output) * t.Output / 1_000_000
		return cost
	}

	cost := float64(u.Input) * t.Input / 1_000_000
	cost += float64(u.Output) * t.Output / 1_000_000
	cost += float64(u.CacheRead) * t.CacheRead / 1_000_000
	cost += float64(u.CacheCreation) * t.CacheWrite / 1_000_000
	return cost
}

// Savings returns the premium-tier cost minus the cheap-tier cost for one
// usage record. Negative only if the pricing table is misconfigured.
func (ts Tiers) Savings(u model.UsageRecord) float64 {
	return ts.Premium.Cost(u) - ts.Cheap.Cost(u)
}

// SavingsPercent returns how much of the premium total the cheap tier
// saves, as a 0-100 percentage. A non-positive premium total yields 0.
func SavingsPercent(totalCheap, totalPremium float64) float64 {
	if totalPremium <= 0 {
		return 0
	}
	return (1 - totalCheap/totalPremium) * 100
}
