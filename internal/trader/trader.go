// Package trader drives the trading cycle: monitor open positions, fetch
// market snapshots, score, decide, execute, record. One cycle runs to
// completion before the next is scheduled; all ledger access happens on
// this single loop.
package trader

import (
	"context"
	"log"
	"time"

	"solana-survival-bot/internal/domain"
	"solana-survival-bot/internal/idhash"
	"solana-survival-bot/internal/ledger"
	"solana-survival-bot/internal/observability"
	"solana-survival-bot/internal/scoring"
	"solana-survival-bot/internal/storage"
)

// Defaults for the trading loop.
const (
	DefaultScanInterval    = 10 * time.Second
	DefaultPositionSizeSOL = 0.005
	DefaultMinScore        = 50
	DefaultProfitTarget    = 1.5
	DefaultStopLoss        = 0.7
	DefaultFeeReserveSOL   = 0.002
)

// MarketSource produces the cycle's snapshots. Satisfied by scanner.Chain.
type MarketSource interface {
	Fetch(ctx context.Context) []*domain.TokenSnapshot
}

// SwapExecutor performs one swap attempt. Satisfied by executor.Executor.
type SwapExecutor interface {
	Execute(ctx context.Context, direction domain.Direction, tokenAddress string, amountSOL float64) *domain.SwapOutcome
}

// BalanceSource reports the wallet's spendable SOL. Always queried fresh
// before a sizing decision, never cached.
type BalanceSource interface {
	BalanceSOL(ctx context.Context) (float64, error)
}

// Config holds the loop's tuning knobs. Zero values are replaced with the
// package defaults.
type Config struct {
	ScanInterval     time.Duration
	PositionSizeSOL  float64
	MinScore         int
	ProfitMultiplier float64
	LossMultiplier   float64
	FeeReserveSOL    float64
}

// State is the loop's explicit mutable state, owned by the trader and
// never package-level. Copies are returned to callers.
type State struct {
	Cycles         int
	TradesExecuted int
	Wins           int
	Losses         int
}

// Options configures a Trader.
type Options struct {
	Market   MarketSource
	Executor SwapExecutor
	Ledger   *ledger.Ledger
	Balance  BalanceSource

	// Journal and Sink are optional audit outputs. Failures are logged
	// and never stop trading.
	Journal storage.TradeJournal
	Sink    storage.ScanSink

	// Metrics is optional Prometheus instrumentation.
	Metrics *observability.Metrics

	Config Config
	Logger *log.Logger

	// Now is overridable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Trader runs the trading loop.
type Trader struct {
	market   MarketSource
	executor SwapExecutor
	ledger   *ledger.Ledger
	balance  BalanceSource
	journal  storage.TradeJournal
	sink     storage.ScanSink
	metrics  *observability.Metrics

	cfg    Config
	logger *log.Logger
	now    func() time.Time

	state State
}

// New creates a trader with defaults applied.
func New(opts Options) *Trader {
	cfg := opts.Config
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = DefaultScanInterval
	}
	if cfg.PositionSizeSOL <= 0 {
		cfg.PositionSizeSOL = DefaultPositionSizeSOL
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = DefaultMinScore
	}
	if cfg.ProfitMultiplier <= 0 {
		cfg.ProfitMultiplier = DefaultProfitTarget
	}
	if cfg.LossMultiplier <= 0 {
		cfg.LossMultiplier = DefaultStopLoss
	}
	if cfg.FeeReserveSOL <= 0 {
		cfg.FeeReserveSOL = DefaultFeeReserveSOL
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	led := opts.Ledger
	if led == nil {
		led = ledger.New(cfg.ProfitMultiplier, cfg.LossMultiplier)
	}

	return &Trader{
		market:   opts.Market,
		executor: opts.Executor,
		ledger:   led,
		balance:  opts.Balance,
		journal:  opts.Journal,
		sink:     opts.Sink,
		metrics:  opts.Metrics,
		cfg:      cfg,
		logger:   logger,
		now:      now,
	}
}

// State returns a copy of the loop's counters.
func (t *Trader) State() State {
	return t.state
}

// Ledger exposes the position book, read-only use intended.
func (t *Trader) Ledger() *ledger.Ledger {
	return t.ledger
}

// Run executes cycles on a fixed period until ctx is cancelled. The first
// cycle runs immediately. An in-flight cycle finishes before shutdown.
func (t *Trader) Run(ctx context.Context) {
	t.logger.Printf("trading loop started: interval=%s size=%v SOL minScore=%d profit=x%v stop=x%v",
		t.cfg.ScanInterval, t.cfg.PositionSizeSOL, t.cfg.MinScore,
		t.cfg.ProfitMultiplier, t.cfg.LossMultiplier)

	t.cycle(ctx)

	ticker := time.NewTicker(t.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Printf("trading loop stopped after %d cycles (%d trades, %d wins, %d losses)",
				t.state.Cycles, t.state.TradesExecuted, t.state.Wins, t.state.Losses)
			return
		case <-ticker.C:
			t.cycle(ctx)
		}
	}
}

// cycle runs one iteration. A panic inside a cycle is logged and does not
// kill the loop.
func (t *Trader) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Printf("cycle panic recovered: %v", r)
		}
	}()

	t.state.Cycles++
	nowMs := t.now().UnixMilli()

	if t.metrics != nil {
		t.metrics.ScanCycles.Inc()
		start := time.Now()
		defer func() {
			t.metrics.ScanCycleDuration.Observe(time.Since(start).Seconds())
		}()
	}

	snapshots := t.market.Fetch(ctx)
	if t.metrics != nil {
		t.metrics.SnapshotsFetched.Set(float64(len(snapshots)))
	}

	prices := make(map[string]float64, len(snapshots))
	for _, s := range snapshots {
		prices[s.Address] = s.PriceUSD
	}

	// Open positions are checked before new entries each cycle.
	t.monitor(ctx, prices, nowMs)

	if len(snapshots) == 0 {
		t.logger.Printf("cycle %d: no snapshots, skipping", t.state.Cycles)
		return
	}

	ranked := scoring.Rank(snapshots)
	t.recordScan(ctx, ranked, nowMs)

	best := ranked[0]
	if t.metrics != nil {
		t.metrics.BestScore.Set(float64(best.Score))
	}
	if best.Score < t.cfg.MinScore {
		t.logger.Printf("cycle %d: best %s scored %d, below minimum %d",
			t.state.Cycles, best.Symbol, best.Score, t.cfg.MinScore)
		return
	}

	if t.ledger.IsHeld(best.Address) {
		t.logger.Printf("cycle %d: already holding %s, skipping", t.state.Cycles, best.Symbol)
		return
	}

	balance, err := t.balance.BalanceSOL(ctx)
	if err != nil {
		t.logger.Printf("cycle %d: balance fetch failed: %v", t.state.Cycles, err)
		return
	}
	if t.metrics != nil {
		t.metrics.WalletBalance.Set(balance)
	}
	required := t.cfg.PositionSizeSOL + t.cfg.FeeReserveSOL
	if balance < required {
		t.logger.Printf("cycle %d: balance %v SOL below required %v SOL, skipping",
			t.state.Cycles, balance, required)
		return
	}

	t.logger.Printf("cycle %d: acquiring %s (%s) score=%d price=%v",
		t.state.Cycles, best.Symbol, best.Address, best.Score, best.PriceUSD)

	outcome := t.execute(ctx, domain.DirectionAcquire, best.Address, t.cfg.PositionSizeSOL)
	t.journalTrade(ctx, best.Address, best.Symbol, domain.DirectionAcquire,
		t.cfg.PositionSizeSOL, best.PriceUSD, best.Score, outcome, nowMs)

	if outcome.Status == domain.StatusFailed {
		t.logger.Printf("cycle %d: acquire %s failed: %s", t.state.Cycles, best.Symbol, outcome.ErrorMessage)
		return
	}

	// Confirmed, or unconfirmed with funds likely spent: record the
	// position either way so a later fill is not re-entered blind.
	if outcome.Status == domain.StatusUnconfirmed {
		t.logger.Printf("cycle %d: acquire %s unconfirmed, recording provisional position (%s)",
			t.state.Cycles, best.Symbol, outcome.ConfirmationURL)
	}

	err = t.ledger.Open(&domain.Position{
		Address:        best.Address,
		Name:           best.Name,
		Symbol:         best.Symbol,
		EntryPrice:     best.PriceUSD,
		Amount:         t.cfg.PositionSizeSOL,
		OpenedAt:       nowMs,
		EntrySignature: outcome.Signature,
	})
	if err != nil {
		t.logger.Printf("cycle %d: open position %s: %v", t.state.Cycles, best.Symbol, err)
		return
	}
	if t.metrics != nil {
		t.metrics.PositionsOpen.Set(float64(t.ledger.Count()))
	}

	if outcome.Status == domain.StatusConfirmed {
		t.logger.Printf("cycle %d: opened %s at %v, target %v, stop %v (%s)",
			t.state.Cycles, best.Symbol, best.PriceUSD,
			best.PriceUSD*t.cfg.ProfitMultiplier, best.PriceUSD*t.cfg.LossMultiplier,
			outcome.ConfirmationURL)
	}
}

// monitor walks open positions and disposes those whose current price
// crossed the target or stop. Positions without a price this cycle are
// left alone until the next one.
func (t *Trader) monitor(ctx context.Context, prices map[string]float64, nowMs int64) {
	for _, pos := range t.ledger.ListOpen() {
		price, ok := prices[pos.Address]
		if !ok {
			t.logger.Printf("monitor: no price for %s this cycle", pos.Symbol)
			continue
		}

		var reason string
		switch {
		case price >= pos.TargetPrice:
			reason = domain.ExitReasonProfitTarget
		case price <= pos.StopPrice:
			reason = domain.ExitReasonStopLoss
		default:
			continue
		}

		t.logger.Printf("monitor: disposing %s at %v (%s, entry %v)",
			pos.Symbol, price, reason, pos.EntryPrice)

		outcome := t.execute(ctx, domain.DirectionDispose, pos.Address, pos.Amount)
		t.journalTrade(ctx, pos.Address, pos.Symbol, domain.DirectionDispose,
			pos.Amount, price, 0, outcome, nowMs)

		if outcome.Status == domain.StatusFailed {
			t.logger.Printf("monitor: dispose %s failed, position stays open: %s",
				pos.Symbol, outcome.ErrorMessage)
			continue
		}

		if _, err := t.ledger.Close(pos.Address, price, outcome.Signature, reason, nowMs); err != nil {
			t.logger.Printf("monitor: close %s: %v", pos.Symbol, err)
			continue
		}

		if reason == domain.ExitReasonProfitTarget {
			t.state.Wins++
		} else {
			t.state.Losses++
		}
		if t.metrics != nil {
			t.metrics.PositionsOpen.Set(float64(t.ledger.Count()))
			t.metrics.PositionsClosed.WithLabelValues(reason).Inc()
		}
	}
}

// execute runs one swap attempt, counting it and timing it.
func (t *Trader) execute(ctx context.Context, direction domain.Direction, address string, amountSOL float64) *domain.SwapOutcome {
	start := time.Now()
	outcome := t.executor.Execute(ctx, direction, address, amountSOL)
	t.state.TradesExecuted++

	if t.metrics != nil {
		t.metrics.SwapDuration.WithLabelValues(string(direction)).Observe(time.Since(start).Seconds())
		t.metrics.TradesExecuted.WithLabelValues(string(direction), string(outcome.Status)).Inc()
	}
	return outcome
}

// journalTrade appends the attempt to the audit journal, best effort.
func (t *Trader) journalTrade(ctx context.Context, address, symbol string, direction domain.Direction,
	amountSOL, priceUSD float64, score int, outcome *domain.SwapOutcome, executedAt int64) {
	if t.journal == nil {
		return
	}

	record := &domain.TradeRecord{
		TradeID:      idhash.ComputeTradeID(address, string(direction), executedAt),
		Address:      address,
		Symbol:       symbol,
		Direction:    direction,
		AmountSOL:    amountSOL,
		OutputAmount: outcome.OutputAmount,
		PriceUSD:     priceUSD,
		Score:        score,
		Status:       outcome.Status,
		Signature:    outcome.Signature,
		ErrorMessage: outcome.ErrorMessage,
		ExecutedAt:   executedAt,
	}
	if err := t.journal.Append(ctx, record); err != nil {
		t.logger.Printf("journal append: %v", err)
	}
}

// recordScan appends the cycle's scored snapshots to the sink, best effort.
func (t *Trader) recordScan(ctx context.Context, ranked []*domain.ScoredOpportunity, nowMs int64) {
	if t.sink == nil {
		return
	}

	points := make([]*domain.ScanPoint, 0, len(ranked))
	for _, opp := range ranked {
		points = append(points, &domain.ScanPoint{
			Address:      opp.Address,
			Symbol:       opp.Symbol,
			TimestampMs:  nowMs,
			PriceUSD:     opp.PriceUSD,
			LiquidityUSD: opp.LiquidityUSD,
			Volume24hUSD: opp.Volume24hUSD,
			Score:        opp.Score,
		})
	}
	if err := t.sink.AppendBatch(ctx, points); err != nil {
		t.logger.Printf("scan sink append: %v", err)
	}
}
