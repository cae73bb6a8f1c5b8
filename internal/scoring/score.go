// Package scoring assigns desirability scores to token snapshots and ranks
// them. Scoring is pure and deterministic: no I/O, no clock, no randomness.
package scoring

import (
	"sort"

	"solana-survival-bot/internal/domain"
)

// Bucket thresholds are hand-tuned constants. All comparisons are strict.
const (
	liquidityHighUSD = 100_000
	liquidityMidUSD  = 50_000
	liquidityLowUSD  = 20_000

	volumeHighUSD = 50_000
	volumeMidUSD  = 20_000
	volumeLowUSD  = 10_000

	txnsHigh = 500
	txnsMid  = 200
	txnsLow  = 50
)

// Score maps a snapshot to an additive score. Each factor contributes the
// highest qualifying bucket only.
func Score(s *domain.TokenSnapshot) int {
	score := 0

	// Liquidity (30 points max)
	switch {
	case s.LiquidityUSD > liquidityHighUSD:
		score += 30
	case s.LiquidityUSD > liquidityMidUSD:
		score += 20
	case s.LiquidityUSD > liquidityLowUSD:
		score += 10
	}

	// 24h volume (25 points max)
	switch {
	case s.Volume24hUSD > volumeHighUSD:
		score += 25
	case s.Volume24hUSD > volumeMidUSD:
		score += 15
	case s.Volume24hUSD > volumeLowUSD:
		score += 10
	}

	// Momentum (25 points max), 1h and 6h change taken together
	switch {
	case s.PriceChange1hPct > 5 && s.PriceChange6hPct > 10:
		score += 25
	case s.PriceChange1hPct > 3 && s.PriceChange6hPct > 5:
		score += 15
	case s.PriceChange1hPct > 0:
		score += 5
	}

	// Activity (20 points max)
	switch {
	case s.TxnCount24h > txnsHigh:
		score += 20
	case s.TxnCount24h > txnsMid:
		score += 10
	case s.TxnCount24h > txnsLow:
		score += 5
	}

	return score
}

// Rank scores a batch and returns it sorted by score descending. The sort is
// stable: snapshots with equal scores keep their input order.
func Rank(snapshots []*domain.TokenSnapshot) []*domain.ScoredOpportunity {
	scored := make([]*domain.ScoredOpportunity, 0, len(snapshots))
	for _, s := range snapshots {
		scored = append(scored, &domain.ScoredOpportunity{
			TokenSnapshot: *s,
			Score:         Score(s),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// BestOpportunity returns the highest-ranked snapshot, or nil if the input
// is empty.
func BestOpportunity(snapshots []*domain.TokenSnapshot) *domain.ScoredOpportunity {
	ranked := Rank(snapshots)
	if len(ranked) == 0 {
		return nil
	}
	return ranked[0]
}
