package memory

import (
	"context"
	"sort"
	"sync"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/storage"
)

// TradeJournal is an in-memory implementation of storage.TradeJournal.
// Used when no PostgreSQL DSN is configured.
type TradeJournal struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewTradeJournal creates a new in-memory trade journal.
func NewTradeJournal() *TradeJournal {
	return &TradeJournal{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Compile-time interface check.
var _ storage.TradeJournal = (*TradeJournal)(nil)

// Append adds a trade record. Returns ErrDuplicateKey if trade_id exists.
func (j *TradeJournal) Append(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	recordCopy := *t
	j.data[t.TradeID] = &recordCopy
	return nil
}

// List retrieves all trades ordered by executed_at ASC.
func (j *TradeJournal) List(_ context.Context) ([]*domain.TradeRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]*domain.TradeRecord, 0, len(j.data))
	for _, t := range j.data {
		recordCopy := *t
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, k int) bool {
		if result[i].ExecutedAt != result[k].ExecutedAt {
			return result[i].ExecutedAt < result[k].ExecutedAt
		}
		return result[i].TradeID < result[k].TradeID
	})

	return result, nil
}
