package solana

import "context"

// SignatureWatcher waits for a transaction signature to reach a commitment
// checkpoint.
type SignatureWatcher interface {
	// WaitForSignature blocks until the signature reaches the commitment,
	// the context expires, or the watcher fails. A non-nil result with a
	// non-nil Err means the transaction landed but failed on chain.
	WaitForSignature(ctx context.Context, signature string, commitment Commitment) (*SignatureResult, error)

	// Close releases watcher resources.
	Close() error
}

// SignatureResult is the terminal state of a watched signature.
type SignatureResult struct {
	Slot int64
	Err  interface{} // on-chain error, nil on success
}
