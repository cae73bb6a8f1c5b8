// Package scanner retrieves candidate token snapshots from market data
// sources. A source failure is never fatal: the chain degrades to an empty
// result and the trading loop treats the cycle as "nothing found".
package scanner

import (
	"context"
	"log"

	"solana-survival-bot/internal/domain"
)

// Source is one market data provider.
type Source interface {
	// Fetch returns current token snapshots. All numeric fields are
	// normalized: absent values default to zero, never an error.
	Fetch(ctx context.Context) ([]*domain.TokenSnapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// Chain tries sources in order until one returns a non-empty result.
// Its Fetch never fails; when every source errors or comes back empty the
// chain returns an empty slice.
type Chain struct {
	sources []Source
	logger  *log.Logger
}

// NewChain creates a fallback chain over the given sources.
func NewChain(logger *log.Logger, sources ...Source) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{sources: sources, logger: logger}
}

// Fetch returns the first non-empty snapshot set produced by the sources.
func (c *Chain) Fetch(ctx context.Context) []*domain.TokenSnapshot {
	for _, src := range c.sources {
		snapshots, err := src.Fetch(ctx)
		if err != nil {
			c.logger.Printf("source %s failed: %v", src.Name(), err)
			continue
		}
		if len(snapshots) == 0 {
			c.logger.Printf("source %s returned no snapshots", src.Name())
			continue
		}
		return snapshots
	}
	return nil
}
