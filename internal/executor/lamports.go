package executor

import "math"

// LamportsPerSOL is the fixed conversion factor of the chain.
const LamportsPerSOL = 1_000_000_000

// SOLToLamports converts a decimal SOL amount to integer lamports.
// Rounds to the nearest lamport so that decimal amounts representable at
// lamport resolution round-trip exactly (0.015 SOL -> 15000000 lamports).
func SOLToLamports(sol float64) uint64 {
	if sol <= 0 {
		return 0
	}
	return uint64(math.Round(sol * LamportsPerSOL))
}

// LamportsToSOL converts integer lamports to a decimal SOL amount.
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}
