// Package ledger tracks open positions in memory. At most one open
// position may exist per token address; this is the invariant every
// trading decision leans on.
package ledger

import (
	"errors"
	"sort"
	"sync"

	"solana-survival-bot/internal/domain"
)

var (
	// ErrAlreadyHeld is returned by Open when the address already has an
	// open position.
	ErrAlreadyHeld = errors.New("position already held for address")

	// ErrNotHeld is returned by Close when no open position exists for
	// the address.
	ErrNotHeld = errors.New("no open position for address")

	// ErrInvalidInput is returned when a required field is missing.
	ErrInvalidInput = errors.New("invalid input")
)

// Ledger is an in-memory open-position book keyed by token address.
type Ledger struct {
	mu   sync.RWMutex
	open map[string]*domain.Position // keyed by token address

	profitMultiplier float64
	lossMultiplier   float64
}

// New creates a ledger. Target and stop prices for opened positions are
// derived from the entry price via the two multipliers.
func New(profitMultiplier, lossMultiplier float64) *Ledger {
	return &Ledger{
		open:             make(map[string]*domain.Position),
		profitMultiplier: profitMultiplier,
		lossMultiplier:   lossMultiplier,
	}
}

// IsHeld reports whether an open position exists for the address.
func (l *Ledger) IsHeld(address string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, held := l.open[address]
	return held
}

// Open records a new position. Returns ErrAlreadyHeld if the address
// already has one open; the existing position is left untouched.
func (l *Ledger) Open(p *domain.Position) error {
	if p == nil || p.Address == "" {
		return ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.open[p.Address]; held {
		return ErrAlreadyHeld
	}

	posCopy := *p
	posCopy.State = domain.PositionOpen
	posCopy.TargetPrice = posCopy.EntryPrice * l.profitMultiplier
	posCopy.StopPrice = posCopy.EntryPrice * l.lossMultiplier
	l.open[p.Address] = &posCopy
	return nil
}

// Get returns a copy of the open position for the address, or ErrNotHeld.
func (l *Ledger) Get(address string) (*domain.Position, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, held := l.open[address]
	if !held {
		return nil, ErrNotHeld
	}

	posCopy := *p
	return &posCopy, nil
}

// ListOpen returns copies of all open positions, oldest first.
func (l *Ledger) ListOpen() []*domain.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*domain.Position, 0, len(l.open))
	for _, p := range l.open {
		posCopy := *p
		result = append(result, &posCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OpenedAt < result[j].OpenedAt
	})

	return result
}

// Close removes the open position for the address and returns it in its
// closed state. Returns ErrNotHeld if nothing is open for the address.
func (l *Ledger) Close(address string, exitPrice float64, exitSignature, exitReason string, closedAt int64) (*domain.Position, error) {
	if address == "" {
		return nil, ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, held := l.open[address]
	if !held {
		return nil, ErrNotHeld
	}
	delete(l.open, address)

	p.State = domain.PositionClosed
	p.ExitPrice = exitPrice
	p.ExitSignature = exitSignature
	p.ExitReason = exitReason
	p.ClosedAt = closedAt

	posCopy := *p
	return &posCopy, nil
}

// Count returns the number of open positions.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.open)
}
