package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/jupiter"
	"solana-survival-bot/internal/solana"
)

// stubAPI is a scripted SwapAPI that records call order.
type stubAPI struct {
	quote    *jupiter.Quote
	quoteErr error
	tx       string
	txErr    error

	calls []string

	gotInputMint  string
	gotOutputMint string
	gotAmount     uint64
}

func (a *stubAPI) Quote(_ context.Context, inputMint, outputMint string, amountLamports uint64) (*jupiter.Quote, error) {
	a.calls = append(a.calls, "quote")
	a.gotInputMint = inputMint
	a.gotOutputMint = outputMint
	a.gotAmount = amountLamports
	return a.quote, a.quoteErr
}

func (a *stubAPI) Swap(_ context.Context, _ *jupiter.Quote, _ string) (string, error) {
	a.calls = append(a.calls, "swap")
	return a.tx, a.txErr
}

// stubSigner records whether signing was attempted.
type stubSigner struct {
	signErr error
	calls   []string
}

func (s *stubSigner) PublicKey() string { return "Wallet111" }

func (s *stubSigner) SignTransactionBase64(tx string) (string, error) {
	s.calls = append(s.calls, "sign")
	if s.signErr != nil {
		return "", s.signErr
	}
	return "signed:" + tx, nil
}

// stubRPC scripts broadcast and status queries.
type stubRPC struct {
	signature string
	sendErr   error
	statuses  []*solana.SignatureStatus
	statusErr error
	calls     []string
	gotTx     string
	gotOpts   *solana.SendOptions
}

func (r *stubRPC) GetBalance(context.Context, string) (uint64, error) { return 0, nil }

func (r *stubRPC) GetLatestBlockhash(context.Context) (*solana.LatestBlockhash, error) {
	return nil, errors.New("not implemented")
}

func (r *stubRPC) SendTransaction(_ context.Context, tx string, opts *solana.SendOptions) (string, error) {
	r.calls = append(r.calls, "send")
	r.gotTx = tx
	r.gotOpts = opts
	return r.signature, r.sendErr
}

func (r *stubRPC) GetSignatureStatuses(context.Context, []string, bool) ([]*solana.SignatureStatus, error) {
	r.calls = append(r.calls, "statuses")
	return r.statuses, r.statusErr
}

// stubWatcher scripts the confirmation wait.
type stubWatcher struct {
	result *solana.SignatureResult
	err    error
}

func (w *stubWatcher) WaitForSignature(context.Context, string, solana.Commitment) (*solana.SignatureResult, error) {
	return w.result, w.err
}

func (w *stubWatcher) Close() error { return nil }

func goodQuote() *jupiter.Quote {
	return &jupiter.Quote{
		InAmount:  15_000_000,
		OutAmount: 2_000_000_000,
		Raw:       json.RawMessage(`{"outAmount":"2000000000"}`),
	}
}

func newTestExecutor(api *stubAPI, signer *stubSigner, rpc *stubRPC, watcher solana.SignatureWatcher) *Executor {
	return New(Options{
		SwapAPI:        api,
		Signer:         signer,
		RPC:            rpc,
		Watcher:        watcher,
		ConfirmTimeout: 100 * time.Millisecond,
		Logger:         log.New(io.Discard, "", 0),
	})
}

func TestExecute_AcquireConfirmed(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dW5zaWduZWQ="}
	signer := &stubSigner{}
	rpc := &stubRPC{signature: "Sig111"}
	watcher := &stubWatcher{result: &solana.SignatureResult{Slot: 100}}

	exec := newTestExecutor(api, signer, rpc, watcher)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if !outcome.Success() {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Signature != "Sig111" {
		t.Errorf("signature = %s, want Sig111", outcome.Signature)
	}
	if outcome.OutputAmount != 2.0 {
		t.Errorf("outputAmount = %v, want 2.0", outcome.OutputAmount)
	}
	if outcome.ConfirmationURL != "https://solscan.io/tx/Sig111" {
		t.Errorf("confirmationURL = %s", outcome.ConfirmationURL)
	}

	// ACQUIRE swaps native into the token.
	if api.gotInputMint != WSOLMint || api.gotOutputMint != "Mint111" {
		t.Errorf("mints = %s -> %s", api.gotInputMint, api.gotOutputMint)
	}
	if api.gotAmount != 15_000_000 {
		t.Errorf("amount = %d lamports, want 15000000", api.gotAmount)
	}

	// Broadcast carries the signed payload with the pinned send options.
	if rpc.gotTx != "signed:dW5zaWduZWQ=" {
		t.Errorf("broadcast tx = %s", rpc.gotTx)
	}
	if rpc.gotOpts == nil || !rpc.gotOpts.SkipPreflight || rpc.gotOpts.MaxRetries != 3 {
		t.Errorf("send options = %+v", rpc.gotOpts)
	}
}

func TestExecute_DisposeSwapsMintsBack(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	rpc := &stubRPC{signature: "Sig222"}
	exec := newTestExecutor(api, &stubSigner{}, rpc, &stubWatcher{result: &solana.SignatureResult{}})

	outcome := exec.Execute(context.Background(), domain.DirectionDispose, "Mint111", 0.005)

	if !outcome.Success() {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if api.gotInputMint != "Mint111" || api.gotOutputMint != WSOLMint {
		t.Errorf("mints = %s -> %s", api.gotInputMint, api.gotOutputMint)
	}
}

// A missing quote must short-circuit before any transaction-building or
// signing call is attempted.
func TestExecute_QuoteFailureShortCircuits(t *testing.T) {
	api := &stubAPI{quoteErr: errors.New("no route")}
	signer := &stubSigner{}
	rpc := &stubRPC{}

	exec := newTestExecutor(api, signer, rpc, nil)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
	if !strings.Contains(outcome.ErrorMessage, "quote") {
		t.Errorf("error message should name the quote step: %s", outcome.ErrorMessage)
	}

	for _, call := range api.calls {
		if call == "swap" {
			t.Error("swap build must not be called after a failed quote")
		}
	}
	if len(signer.calls) != 0 {
		t.Error("signing must not be attempted after a failed quote")
	}
	if len(rpc.calls) != 0 {
		t.Error("broadcast must not be attempted after a failed quote")
	}
}

func TestExecute_NilQuoteShortCircuits(t *testing.T) {
	api := &stubAPI{} // returns nil quote, nil error
	exec := newTestExecutor(api, &stubSigner{}, &stubRPC{}, nil)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)
	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
}

func TestExecute_BuildFailureShortCircuits(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), txErr: errors.New("503")}
	signer := &stubSigner{}
	rpc := &stubRPC{}

	exec := newTestExecutor(api, signer, rpc, nil)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
	if len(signer.calls) != 0 {
		t.Error("signing must not be attempted without a transaction payload")
	}
	if len(rpc.calls) != 0 {
		t.Error("broadcast must not be attempted without a signed transaction")
	}
}

func TestExecute_SignFailureShortCircuits(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	signer := &stubSigner{signErr: errors.New("not a signer")}
	rpc := &stubRPC{}

	exec := newTestExecutor(api, signer, rpc, nil)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
	if len(rpc.calls) != 0 {
		t.Error("broadcast must not be attempted after a failed signature")
	}
}

func TestExecute_BroadcastFailure(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	rpc := &stubRPC{sendErr: errors.New("blockhash not found")}

	exec := newTestExecutor(api, &stubSigner{}, rpc, nil)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
	if outcome.Signature != "" {
		t.Error("failed broadcast must not carry a signature")
	}
}

func TestExecute_OnChainFailure(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	rpc := &stubRPC{signature: "SigBad"}
	watcher := &stubWatcher{result: &solana.SignatureResult{Err: "InstructionError"}}

	exec := newTestExecutor(api, &stubSigner{}, rpc, watcher)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
	if !strings.Contains(outcome.ErrorMessage, "SigBad") {
		t.Errorf("error should reference the signature: %s", outcome.ErrorMessage)
	}
}

// An expired wait whose reconciliation finds the transaction confirmed is
// upgraded to success instead of being mislabeled a failure.
func TestExecute_ReconcileUpgradesToConfirmed(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	rpc := &stubRPC{
		signature: "SigSlow",
		statuses:  []*solana.SignatureStatus{{Slot: 50, ConfirmationStatus: solana.CommitmentFinalized}},
	}
	watcher := &stubWatcher{err: errors.New("websocket closed")}

	exec := newTestExecutor(api, &stubSigner{}, rpc, watcher)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if !outcome.Success() {
		t.Fatalf("expected reconciled success, got %+v", outcome)
	}
	if outcome.Signature != "SigSlow" {
		t.Errorf("signature = %s, want SigSlow", outcome.Signature)
	}
}

func TestExecute_ReconcileDowngradesToFailed(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	rpc := &stubRPC{
		signature: "SigErr",
		statuses:  []*solana.SignatureStatus{{Slot: 50, ConfirmationStatus: solana.CommitmentConfirmed, Err: "Custom(6001)"}},
	}
	watcher := &stubWatcher{err: errors.New("timeout")}

	exec := newTestExecutor(api, &stubSigner{}, rpc, watcher)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusFailed {
		t.Fatalf("expected failed outcome, got %+v", outcome)
	}
}

// When the chain does not know the signature at all, the ambiguous outcome
// is surfaced distinctly from a clean failure: the caller must not assume
// funds were never spent.
func TestExecute_UnconfirmedIsDistinct(t *testing.T) {
	api := &stubAPI{quote: goodQuote(), tx: "dHg="}
	rpc := &stubRPC{
		signature: "SigLost",
		statuses:  []*solana.SignatureStatus{nil},
	}
	watcher := &stubWatcher{err: errors.New("timeout")}

	exec := newTestExecutor(api, &stubSigner{}, rpc, watcher)

	outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0.015)

	if outcome.Status != domain.StatusUnconfirmed {
		t.Fatalf("expected unconfirmed outcome, got %+v", outcome)
	}
	if outcome.Success() {
		t.Error("unconfirmed must not read as success")
	}
	if outcome.Signature != "SigLost" {
		t.Error("unconfirmed outcome must carry the signature for manual reconciliation")
	}
	if outcome.ConfirmationURL == "" {
		t.Error("unconfirmed outcome must carry the explorer URL")
	}
}

func TestExecute_InvalidInputs(t *testing.T) {
	exec := newTestExecutor(&stubAPI{}, &stubSigner{}, &stubRPC{}, nil)

	if outcome := exec.Execute(context.Background(), domain.Direction("HOLD"), "Mint111", 0.015); outcome.Status != domain.StatusFailed {
		t.Error("invalid direction must fail")
	}
	if outcome := exec.Execute(context.Background(), domain.DirectionAcquire, "Mint111", 0); outcome.Status != domain.StatusFailed {
		t.Error("zero amount must fail")
	}
}
