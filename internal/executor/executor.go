// Package executor turns a trade decision into an on-chain swap: quote,
// build, sign, broadcast, confirm. Each step's failure short-circuits to a
// failed outcome; nothing past the broadcast is ever retried blindly.
package executor

import (
	"context"
	"fmt"
	"log"
	"time"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/jupiter"
	"solana-survival-bot/internal/solana"
)

// WSOLMint is the wrapped-SOL mint address.
const WSOLMint = "So11111111111111111111111111111111111111112"

// Default configuration values.
const (
	DefaultExplorerBaseURL  = "https://solscan.io/tx/"
	DefaultConfirmTimeout   = 60 * time.Second
	DefaultBroadcastRetries = 3
)

// SwapAPI provides quotes and unsigned swap transactions.
type SwapAPI interface {
	Quote(ctx context.Context, inputMint, outputMint string, amountLamports uint64) (*jupiter.Quote, error)
	Swap(ctx context.Context, quote *jupiter.Quote, userPublicKey string) (string, error)
}

// Signer supplies the trading identity.
type Signer interface {
	PublicKey() string
	SignTransactionBase64(txBase64 string) (string, error)
}

// Executor executes swaps against the chain.
type Executor struct {
	api             SwapAPI
	signer          Signer
	rpc             solana.RPCClient
	watcher         solana.SignatureWatcher // nil when no WebSocket endpoint is configured
	confirmTimeout  time.Duration
	explorerBaseURL string
	logger          *log.Logger
}

// Options contains configuration for creating an Executor.
type Options struct {
	SwapAPI SwapAPI
	Signer  Signer
	RPC     solana.RPCClient

	// Watcher is the preferred confirmation path (WebSocket). When nil or
	// failing, the executor polls the RPC endpoint instead.
	Watcher solana.SignatureWatcher

	ConfirmTimeout  time.Duration // default 60s
	ExplorerBaseURL string        // default solscan
	Logger          *log.Logger
}

// New creates a swap executor.
func New(opts Options) *Executor {
	confirmTimeout := opts.ConfirmTimeout
	if confirmTimeout == 0 {
		confirmTimeout = DefaultConfirmTimeout
	}

	explorerBaseURL := opts.ExplorerBaseURL
	if explorerBaseURL == "" {
		explorerBaseURL = DefaultExplorerBaseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Executor{
		api:             opts.SwapAPI,
		signer:          opts.Signer,
		rpc:             opts.RPC,
		watcher:         opts.Watcher,
		confirmTimeout:  confirmTimeout,
		explorerBaseURL: explorerBaseURL,
		logger:          logger,
	}
}

// Execute swaps amountSOL towards the token (ACQUIRE) or the token's worth
// of amountSOL back to SOL (DISPOSE). The returned outcome is never nil and
// never accompanied by an error: every failure mode is folded into it.
func (e *Executor) Execute(ctx context.Context, direction domain.Direction, tokenAddress string, amountSOL float64) *domain.SwapOutcome {
	if !direction.IsValid() {
		return failed(fmt.Sprintf("invalid direction %q", direction))
	}

	inputMint, outputMint := WSOLMint, tokenAddress
	if direction == domain.DirectionDispose {
		inputMint, outputMint = tokenAddress, WSOLMint
	}

	amountLamports := SOLToLamports(amountSOL)
	if amountLamports == 0 {
		return failed(fmt.Sprintf("amount %v SOL is below lamport resolution", amountSOL))
	}

	e.logger.Printf("%s %s: %v SOL (%d lamports)", direction, tokenAddress, amountSOL, amountLamports)

	// Step 1: quote
	quote, err := e.api.Quote(ctx, inputMint, outputMint, amountLamports)
	if err != nil {
		return failed(fmt.Sprintf("quote: %v", err))
	}
	if quote == nil {
		return failed("no quote returned")
	}
	e.logger.Printf("quote: %d in -> %d out", quote.InAmount, quote.OutAmount)

	// Step 2: build transaction
	unsignedTx, err := e.api.Swap(ctx, quote, e.signer.PublicKey())
	if err != nil {
		return failed(fmt.Sprintf("build swap transaction: %v", err))
	}

	// Step 3: sign
	signedTx, err := e.signer.SignTransactionBase64(unsignedTx)
	if err != nil {
		return failed(fmt.Sprintf("sign transaction: %v", err))
	}

	// Step 4: broadcast
	signature, err := e.rpc.SendTransaction(ctx, signedTx, &solana.SendOptions{
		SkipPreflight: true,
		MaxRetries:    DefaultBroadcastRetries,
	})
	if err != nil {
		return failed(fmt.Sprintf("broadcast: %v", err))
	}
	e.logger.Printf("broadcast %s, waiting for confirmation", signature)

	// Step 5: confirm, bounded
	outcome := e.confirm(ctx, signature, quote)
	if outcome.Status == domain.StatusUnconfirmed {
		e.logger.Printf("WARNING: %s unconfirmed after %s; funds may be spent (%s)",
			signature, e.confirmTimeout, e.explorerBaseURL+signature)
	}
	return outcome
}

// confirm waits for the signature and reconciles ambiguous expiries.
func (e *Executor) confirm(ctx context.Context, signature string, quote *jupiter.Quote) *domain.SwapOutcome {
	waitCtx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	defer cancel()

	result, err := e.waitForSignature(waitCtx, signature)
	if err == nil {
		if result.Err != nil {
			return failed(fmt.Sprintf("transaction %s failed on chain: %v", signature, result.Err))
		}
		return e.confirmed(signature, quote)
	}

	// The wait expired or the watcher broke. The transaction may still have
	// landed; ask the chain by signature before declaring anything.
	return e.reconcile(ctx, signature, quote, err)
}

// waitForSignature prefers the WebSocket watcher and falls back to polling.
func (e *Executor) waitForSignature(ctx context.Context, signature string) (*solana.SignatureResult, error) {
	if e.watcher != nil {
		result, err := e.watcher.WaitForSignature(ctx, signature, solana.CommitmentConfirmed)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		e.logger.Printf("websocket confirmation failed (%v), polling instead", err)
	}

	poller := solana.NewPollingWatcher(e.rpc, 0)
	return poller.WaitForSignature(ctx, signature, solana.CommitmentConfirmed)
}

// reconcile queries transaction history once after an expired wait. Only
// when the chain genuinely does not know the signature is the ambiguous
// unconfirmed outcome surfaced.
func (e *Executor) reconcile(ctx context.Context, signature string, quote *jupiter.Quote, waitErr error) *domain.SwapOutcome {
	statuses, err := e.rpc.GetSignatureStatuses(ctx, []string{signature}, true)
	if err == nil && len(statuses) > 0 && statuses[0] != nil {
		status := statuses[0]
		if status.Err != nil {
			return failed(fmt.Sprintf("transaction %s failed on chain: %v", signature, status.Err))
		}
		if status.Reached(solana.CommitmentConfirmed) {
			return e.confirmed(signature, quote)
		}
	}

	return &domain.SwapOutcome{
		Status:          domain.StatusUnconfirmed,
		Signature:       signature,
		ConfirmationURL: e.explorerBaseURL + signature,
		ErrorMessage:    fmt.Sprintf("confirmation expired: %v", waitErr),
	}
}

// confirmed builds the success outcome from the original quote.
func (e *Executor) confirmed(signature string, quote *jupiter.Quote) *domain.SwapOutcome {
	return &domain.SwapOutcome{
		Status:          domain.StatusConfirmed,
		Signature:       signature,
		OutputAmount:    LamportsToSOL(quote.OutAmount),
		ConfirmationURL: e.explorerBaseURL + signature,
	}
}

func failed(msg string) *domain.SwapOutcome {
	return &domain.SwapOutcome{
		Status:       domain.StatusFailed,
		ErrorMessage: msg,
	}
}
