package postgres

import (
	"context"
	"fmt"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/storage"
)

// TradeJournal implements storage.TradeJournal using PostgreSQL.
type TradeJournal struct {
	pool *Pool
}

// NewTradeJournal creates a new PostgreSQL-backed trade journal.
func NewTradeJournal(pool *Pool) *TradeJournal {
	return &TradeJournal{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeJournal = (*TradeJournal)(nil)

// Append adds a trade record. Returns ErrDuplicateKey if trade_id exists.
func (j *TradeJournal) Append(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trade_records (
			trade_id, address, symbol, direction,
			amount_sol, output_amount, price_usd, score,
			status, signature, error_message, executed_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12
		)
	`

	_, err := j.pool.Exec(ctx, query,
		t.TradeID, t.Address, t.Symbol, string(t.Direction),
		t.AmountSOL, t.OutputAmount, t.PriceUSD, t.Score,
		string(t.Status), t.Signature, t.ErrorMessage, t.ExecutedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// List retrieves all trades ordered by executed_at ASC.
func (j *TradeJournal) List(ctx context.Context) ([]*domain.TradeRecord, error) {
	query := `
		SELECT
			trade_id, address, symbol, direction,
			amount_sol, output_amount, price_usd, score,
			status, signature, error_message, executed_at
		FROM trade_records
		ORDER BY executed_at ASC, trade_id ASC
	`

	rows, err := j.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trade records: %w", err)
	}
	defer rows.Close()

	var trades []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var direction, status string

		err := rows.Scan(
			&t.TradeID, &t.Address, &t.Symbol, &direction,
			&t.AmountSOL, &t.OutputAmount, &t.PriceUSD, &t.Score,
			&status, &t.Signature, &t.ErrorMessage, &t.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}

		t.Direction = domain.Direction(direction)
		t.Status = domain.OutcomeStatus(status)
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
