package solana

import "context"

// Commitment is a Solana commitment checkpoint level.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// RPCClient defines the Solana RPC HTTP interface the bot needs.
type RPCClient interface {
	// GetBalance retrieves the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetLatestBlockhash retrieves the latest blockhash and its expiry height.
	GetLatestBlockhash(ctx context.Context) (*LatestBlockhash, error)

	// SendTransaction broadcasts a base64-encoded signed transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase64 string, opts *SendOptions) (string, error)

	// GetSignatureStatuses retrieves confirmation status for signatures.
	// The result slice is index-aligned with the input; unknown signatures
	// yield a nil entry.
	GetSignatureStatuses(ctx context.Context, signatures []string, searchHistory bool) ([]*SignatureStatus, error)
}
