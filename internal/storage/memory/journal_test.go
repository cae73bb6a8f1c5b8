package memory

import (
	"context"
	"errors"
	"testing"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/storage"
)

func TestTradeJournal_AppendAndList(t *testing.T) {
	journal := NewTradeJournal()
	ctx := context.Background()

	trade := &domain.TradeRecord{
		TradeID:    "trade1",
		Address:    "Mint111",
		Symbol:     "TKN",
		Direction:  domain.DirectionAcquire,
		AmountSOL:  0.005,
		Status:     domain.StatusConfirmed,
		Signature:  "Sig111",
		ExecutedAt: 1000,
	}

	if err := journal.Append(ctx, trade); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := journal.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Signature != "Sig111" {
		t.Errorf("Signature mismatch: got %s", got[0].Signature)
	}
}

func TestTradeJournal_DuplicateKey(t *testing.T) {
	journal := NewTradeJournal()
	ctx := context.Background()

	trade := &domain.TradeRecord{TradeID: "trade1", Address: "Mint111"}

	if err := journal.Append(ctx, trade); err != nil {
		t.Fatalf("First append failed: %v", err)
	}

	err := journal.Append(ctx, trade)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeJournal_InvalidInput(t *testing.T) {
	journal := NewTradeJournal()
	ctx := context.Background()

	if err := journal.Append(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil record: got %v", err)
	}
	if err := journal.Append(ctx, &domain.TradeRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty trade_id: got %v", err)
	}
}

func TestTradeJournal_ListOrdered(t *testing.T) {
	journal := NewTradeJournal()
	ctx := context.Background()

	journal.Append(ctx, &domain.TradeRecord{TradeID: "b", ExecutedAt: 2000})
	journal.Append(ctx, &domain.TradeRecord{TradeID: "a", ExecutedAt: 1000})
	journal.Append(ctx, &domain.TradeRecord{TradeID: "c", ExecutedAt: 3000})

	got, err := journal.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].TradeID != "a" || got[2].TradeID != "c" {
		t.Errorf("not ordered by executed_at: %s, %s, %s",
			got[0].TradeID, got[1].TradeID, got[2].TradeID)
	}

	// Mutating the returned copy must not touch the journal.
	got[0].Signature = "tampered"
	again, _ := journal.List(ctx)
	if again[0].Signature == "tampered" {
		t.Error("List leaked internal state")
	}
}
