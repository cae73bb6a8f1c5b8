package domain

// TradeRecord is one executed swap attempt, appended to the trade journal.
// Corresponds to trade_records table in PostgreSQL. The journal is an audit
// log: the bot writes it and never reads it back.
type TradeRecord struct {
	TradeID      string // deterministic hash
	Address      string // token mint address
	Symbol       string
	Direction    Direction
	AmountSOL    float64 // input size in SOL
	OutputAmount float64 // quoted output in whole token units, 0 on failure
	PriceUSD     float64 // token price at decision time
	Score        int     // opportunity score at decision time, 0 for disposals
	Status       OutcomeStatus
	Signature    string
	ErrorMessage string
	ExecutedAt   int64 // Unix timestamp in milliseconds
}
