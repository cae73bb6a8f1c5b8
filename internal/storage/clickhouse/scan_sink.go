package clickhouse

import (
	"context"
	"fmt"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/storage"
)

// ScanSink implements storage.ScanSink using ClickHouse. One batch per
// scan cycle; rows are never updated.
type ScanSink struct {
	conn *Conn
}

// NewScanSink creates a new ClickHouse-backed scan sink.
func NewScanSink(conn *Conn) *ScanSink {
	return &ScanSink{conn: conn}
}

// Compile-time interface check.
var _ storage.ScanSink = (*ScanSink)(nil)

// AppendBatch adds the cycle's scored snapshots.
func (s *ScanSink) AppendBatch(ctx context.Context, points []*domain.ScanPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO scan_points (
			address, symbol, timestamp_ms, price_usd, liquidity_usd, volume_24h_usd, score
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.Address, p.Symbol, uint64(p.TimestampMs),
			p.PriceUSD, p.LiquidityUSD, p.Volume24hUSD, int32(p.Score),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// ListByAddress retrieves all points for a token, ordered by timestamp ASC.
func (s *ScanSink) ListByAddress(ctx context.Context, address string) ([]*domain.ScanPoint, error) {
	query := `
		SELECT address, symbol, timestamp_ms, price_usd, liquidity_usd, volume_24h_usd, score
		FROM scan_points
		WHERE address = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("query by address: %w", err)
	}
	defer rows.Close()

	var points []*domain.ScanPoint
	for rows.Next() {
		var p domain.ScanPoint
		var timestampMs uint64
		var score int32

		err := rows.Scan(
			&p.Address, &p.Symbol, &timestampMs,
			&p.PriceUSD, &p.LiquidityUSD, &p.Volume24hUSD, &score,
		)
		if err != nil {
			return nil, fmt.Errorf("scan point row: %w", err)
		}

		p.TimestampMs = int64(timestampMs)
		p.Score = int(score)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate point rows: %w", err)
	}

	return points, nil
}
