package solana

import (
	"context"
	"time"
)

// DefaultPollInterval between getSignatureStatuses calls.
const DefaultPollInterval = 2 * time.Second

// PollingWatcher implements SignatureWatcher by polling
// getSignatureStatuses over HTTP. Used when no WebSocket endpoint is
// configured or the WebSocket path fails.
type PollingWatcher struct {
	rpc      RPCClient
	interval time.Duration
}

// NewPollingWatcher creates a polling signature watcher.
func NewPollingWatcher(rpc RPCClient, interval time.Duration) *PollingWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollingWatcher{rpc: rpc, interval: interval}
}

// WaitForSignature polls until the signature reaches the commitment or ctx
// expires. Poll errors are tolerated; the chain is queried again on the
// next tick.
func (w *PollingWatcher) WaitForSignature(ctx context.Context, signature string, commitment Commitment) (*SignatureResult, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		statuses, err := w.rpc.GetSignatureStatuses(ctx, []string{signature}, false)
		if err == nil && len(statuses) > 0 && statuses[0] != nil {
			status := statuses[0]
			if status.Err != nil {
				return &SignatureResult{Slot: status.Slot, Err: status.Err}, nil
			}
			if status.Reached(commitment) {
				return &SignatureResult{Slot: status.Slot}, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close is a no-op; the watcher holds no resources.
func (w *PollingWatcher) Close() error {
	return nil
}

var _ SignatureWatcher = (*PollingWatcher)(nil)
