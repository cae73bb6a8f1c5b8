package domain

// PositionState tracks the lifecycle of a position: none -> open -> closed.
type PositionState string

const (
	PositionOpen   PositionState = "OPEN"
	PositionClosed PositionState = "CLOSED"
)

// Exit reason codes.
const (
	ExitReasonProfitTarget = "PROFIT_TARGET"
	ExitReasonStopLoss     = "STOP_LOSS"
)

// Position is one holding acquired by the bot. At most one open position
// exists per token address. Created once per successful acquisition and
// owned exclusively by the ledger.
type Position struct {
	Address string // token mint address, unique among open positions
	Name    string
	Symbol  string

	EntryPrice  float64 // USD price at entry, from the pre-trade quote
	Amount      float64 // position size in SOL
	TargetPrice float64 // EntryPrice * profit multiplier
	StopPrice   float64 // EntryPrice * loss multiplier

	OpenedAt       int64 // Unix timestamp in milliseconds
	EntrySignature string

	State PositionState

	// Exit details, set when State is PositionClosed.
	ExitPrice     float64
	ExitSignature string
	ExitReason    string
	ClosedAt      int64 // Unix timestamp in milliseconds
}
