package domain

// TokenSnapshot is a normalized view of one tradable token as reported by a
// market data source. Snapshots are produced fresh each scan cycle and are
// never mutated after creation.
type TokenSnapshot struct {
	Address string // token mint address, unique key
	Name    string
	Symbol  string

	PriceUSD     float64 // current price in USD, >= 0
	LiquidityUSD float64 // pool liquidity in USD, >= 0
	Volume24hUSD float64 // 24h trade volume in USD, >= 0

	PriceChange1hPct  float64 // signed percent
	PriceChange6hPct  float64 // signed percent
	PriceChange24hPct float64 // signed percent

	TxnCount24h int64 // buys + sells over 24h, >= 0
}

// ScoredOpportunity pairs a snapshot with its desirability score.
// Ephemeral, used only for ranking within a single cycle.
type ScoredOpportunity struct {
	TokenSnapshot
	Score int
}

// ScanPoint is one scored observation appended to the scan timeseries sink.
// Corresponds to scan_points table in ClickHouse.
type ScanPoint struct {
	Address      string
	Symbol       string
	TimestampMs  int64 // scan cycle timestamp (ms)
	PriceUSD     float64
	LiquidityUSD float64
	Volume24hUSD float64
	Score        int
}
