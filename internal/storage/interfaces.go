package storage

import (
	"context"

	"solana-survival-bot/internal/domain"
)

// TradeJournal is the append-only audit log of executed swap attempts.
// The bot writes every attempt, confirmed or not, and never reads the
// journal back for decisions.
type TradeJournal interface {
	// Append adds a trade record. Returns ErrDuplicateKey if trade_id exists.
	Append(ctx context.Context, t *domain.TradeRecord) error

	// List retrieves all trades ordered by executed_at ASC.
	List(ctx context.Context) ([]*domain.TradeRecord, error)
}

// ScanSink receives scored market observations, one batch per scan cycle.
// Best-effort: a sink failure must not stop trading.
type ScanSink interface {
	// AppendBatch adds the cycle's scored snapshots.
	AppendBatch(ctx context.Context, points []*domain.ScanPoint) error
}
