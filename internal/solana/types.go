package solana

// LatestBlockhash from getLatestBlockhash.
type LatestBlockhash struct {
	Blockhash            string
	LastValidBlockHeight int64
}

// SendOptions configures sendTransaction broadcast behavior.
type SendOptions struct {
	SkipPreflight bool
	MaxRetries    int        // RPC-node resend budget for the raw transaction
	Commitment    Commitment // preflight commitment, ignored when SkipPreflight
}

// SignatureStatus from getSignatureStatuses.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *int64 // nil once rooted
	ConfirmationStatus Commitment
	Err                interface{} // non-nil when the transaction failed on chain
}

// Reached reports whether the status satisfies the wanted commitment.
func (s *SignatureStatus) Reached(want Commitment) bool {
	if s == nil {
		return false
	}
	switch want {
	case CommitmentProcessed:
		return s.ConfirmationStatus != ""
	case CommitmentConfirmed:
		return s.ConfirmationStatus == CommitmentConfirmed || s.ConfirmationStatus == CommitmentFinalized
	case CommitmentFinalized:
		return s.ConfirmationStatus == CommitmentFinalized
	}
	return false
}
