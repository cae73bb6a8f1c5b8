package jupiter

import "encoding/json"

// Quote is a price quote for an exact-in swap. Amounts are integer
// smallest-units (lamports for SOL, base units for tokens) as returned on
// the wire. Raw preserves the full provider response because the swap-build
// endpoint requires the quote verbatim.
type Quote struct {
	InputMint  string
	OutputMint string
	InAmount   uint64
	OutAmount  uint64
	Raw        json.RawMessage
}
