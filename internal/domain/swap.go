package domain

// Direction indicates which way a swap moves relative to the native currency.
type Direction string

const (
	// DirectionAcquire swaps native currency into the token.
	DirectionAcquire Direction = "ACQUIRE"
	// DirectionDispose swaps the token back into native currency.
	DirectionDispose Direction = "DISPOSE"
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	return string(d)
}

// IsValid checks if the direction is a valid value.
func (d Direction) IsValid() bool {
	return d == DirectionAcquire || d == DirectionDispose
}

// OutcomeStatus classifies the result of one swap execution attempt.
type OutcomeStatus string

const (
	// StatusConfirmed means the transaction landed on chain without error.
	StatusConfirmed OutcomeStatus = "confirmed"
	// StatusFailed means the attempt failed before or on chain; no funds moved
	// unless ErrorMessage says otherwise.
	StatusFailed OutcomeStatus = "failed"
	// StatusUnconfirmed means the confirmation wait expired and reconciliation
	// could not determine whether the transaction landed. Funds may be spent.
	StatusUnconfirmed OutcomeStatus = "unconfirmed"
)

// SwapOutcome is the structured result of one swap execution attempt.
// It is never retried automatically beyond the transport-level retry
// inside the broadcast step.
type SwapOutcome struct {
	Status          OutcomeStatus
	Signature       string  // transaction signature, set for confirmed and unconfirmed
	OutputAmount    float64 // quoted output in whole token units, set on confirmed
	ConfirmationURL string  // block explorer URL for the signature
	ErrorMessage    string  // set on failed
}

// Success reports whether the swap confirmed on chain.
func (o *SwapOutcome) Success() bool {
	return o != nil && o.Status == StatusConfirmed
}
