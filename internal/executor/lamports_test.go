package executor

import "testing"

func TestSOLToLamports(t *testing.T) {
	tests := []struct {
		sol  float64
		want uint64
	}{
		{0, 0},
		{-1, 0},
		{0.015, 15_000_000},
		{0.005, 5_000_000},
		{1, 1_000_000_000},
		{0.000000001, 1},
		{2.5, 2_500_000_000},
	}

	for _, tt := range tests {
		if got := SOLToLamports(tt.sol); got != tt.want {
			t.Errorf("SOLToLamports(%v) = %d, want %d", tt.sol, got, tt.want)
		}
	}
}

func TestLamportsToSOL(t *testing.T) {
	if got := LamportsToSOL(1_000_000_000); got != 1 {
		t.Errorf("LamportsToSOL(1e9) = %v, want 1", got)
	}
	if got := LamportsToSOL(0); got != 0 {
		t.Errorf("LamportsToSOL(0) = %v, want 0", got)
	}
}

// Decimal amounts representable at lamport resolution must survive the
// round trip exactly.
func TestConversion_RoundTrip(t *testing.T) {
	for _, sol := range []float64{0.015, 0.005, 0.002, 0.1, 1, 12.345678901} {
		lamports := SOLToLamports(sol)
		if got := LamportsToSOL(lamports); got != sol {
			t.Errorf("round trip %v SOL -> %d lamports -> %v SOL", sol, lamports, got)
		}
	}
}
