package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-survival-bot/internal/executor"
	"solana-survival-bot/internal/jupiter"
	"solana-survival-bot/internal/ledger"
	"solana-survival-bot/internal/observability"
	"solana-survival-bot/internal/scanner"
	"solana-survival-bot/internal/solana"
	"solana-survival-bot/internal/storage"
	chstore "solana-survival-bot/internal/storage/clickhouse"
	"solana-survival-bot/internal/storage/memory"
	"solana-survival-bot/internal/storage/migrations"
	pgstore "solana-survival-bot/internal/storage/postgres"
	"solana-survival-bot/internal/trader"
	"solana-survival-bot/internal/wallet"
)

const defaultRPCEndpoint = "https://api.mainnet-beta.solana.com"

func main() {
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (defaults to RPC_URL env or mainnet-beta)")
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint for confirmations (empty: poll over HTTP)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for the trade journal (empty: in-memory)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the scan sink (empty: disabled)")
	jupiterURL := flag.String("jupiter-url", "", "Jupiter aggregator base URL (empty: public API)")
	positionSize := flag.Float64("position-size", trader.DefaultPositionSizeSOL, "Position size in SOL")
	minScore := flag.Int("min-score", trader.DefaultMinScore, "Minimum opportunity score to trade")
	profitTarget := flag.Float64("profit-target", trader.DefaultProfitTarget, "Exit target as a multiple of entry price")
	stopLoss := flag.Float64("stop-loss", trader.DefaultStopLoss, "Stop loss as a multiple of entry price")
	interval := flag.Duration("interval", trader.DefaultScanInterval, "Scan cycle interval")
	confirmTimeout := flag.Duration("confirm-timeout", executor.DefaultConfirmTimeout, "Swap confirmation timeout")
	slippageBps := flag.Int("slippage-bps", jupiter.DefaultSlippageBps, "Swap slippage tolerance in basis points")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[trader] ", log.LstdFlags)

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("")
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	privateKey := os.Getenv("TRADER_PRIVATE_KEY")
	if privateKey == "" {
		logger.Fatal("TRADER_PRIVATE_KEY is not set")
	}

	w, err := wallet.FromBase58(privateKey)
	if err != nil {
		logger.Fatalf("Load wallet: %v", err)
	}
	if !wallet.IsOnCurve(w.PublicKey()) {
		logger.Fatalf("Wallet public key %s is not a valid curve point", w.PublicKey())
	}

	endpoint := *rpcEndpoint
	if endpoint == "" {
		endpoint = os.Getenv("RPC_URL")
	}
	if endpoint == "" {
		endpoint = defaultRPCEndpoint
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	rpc := solana.NewHTTPClient(endpoint)

	var watcher solana.SignatureWatcher
	if *wsEndpoint != "" {
		ws, err := solana.NewWSClient(ctx, *wsEndpoint, nil)
		if err != nil {
			logger.Printf("WebSocket connect failed, falling back to polling: %v", err)
		} else {
			defer ws.Close()
			watcher = ws
		}
	}

	var jupiterOpts []jupiter.ClientOption
	if *jupiterURL != "" {
		jupiterOpts = append(jupiterOpts, jupiter.WithBaseURL(*jupiterURL))
	}
	jupiterOpts = append(jupiterOpts, jupiter.WithSlippageBps(*slippageBps))

	exec := executor.New(executor.Options{
		SwapAPI:        jupiter.NewClient(jupiterOpts...),
		Signer:         w,
		RPC:            rpc,
		Watcher:        watcher,
		ConfirmTimeout: *confirmTimeout,
		Logger:         logger,
	})

	var journal storage.TradeJournal = memory.NewTradeJournal()
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Connect postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Run postgres migrations: %v", err)
		}
		journal = pgstore.NewTradeJournal(pool)
		logger.Println("Trade journal: postgres")
	}

	var sink storage.ScanSink
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Connect clickhouse: %v", err)
		}
		defer conn.Close()
		sink = chstore.NewScanSink(conn)
		logger.Println("Scan sink: clickhouse")
	}

	balance := &walletBalance{rpc: rpc, pubkey: w.PublicKey()}

	startupBalance, err := balance.BalanceSOL(ctx)
	if err != nil {
		logger.Fatalf("Fetch wallet balance: %v", err)
	}

	logger.Println("=========================================")
	logger.Printf("  Wallet:        %s", w.PublicKey())
	logger.Printf("  Balance:       %.6f SOL", startupBalance)
	logger.Printf("  Position size: %.6f SOL", *positionSize)
	logger.Printf("  Profit target: +%.0f%%", (*profitTarget-1)*100)
	logger.Printf("  Stop loss:     -%.0f%%", (1-*stopLoss)*100)
	logger.Println("=========================================")

	bot := trader.New(trader.Options{
		Market: scanner.NewChain(logger,
			scanner.NewDexScreenerSource(),
		),
		Executor: exec,
		Ledger:   ledger.New(*profitTarget, *stopLoss),
		Balance:  balance,
		Journal:  journal,
		Sink:     sink,
		Metrics:  metrics,
		Config: trader.Config{
			ScanInterval:     *interval,
			PositionSizeSOL:  *positionSize,
			MinScore:         *minScore,
			ProfitMultiplier: *profitTarget,
			LossMultiplier:   *stopLoss,
		},
		Logger: logger,
	})

	bot.Run(ctx)
	close(done)

	state := bot.State()
	logger.Printf("Done: %d cycles, %d trades, %d wins, %d losses",
		state.Cycles, state.TradesExecuted, state.Wins, state.Losses)
}

// walletBalance adapts the RPC client's lamport balance to SOL.
type walletBalance struct {
	rpc    solana.RPCClient
	pubkey string
}

func (b *walletBalance) BalanceSOL(ctx context.Context) (float64, error) {
	lamports, err := b.rpc.GetBalance(ctx, b.pubkey)
	if err != nil {
		return 0, err
	}
	return executor.LamportsToSOL(lamports), nil
}
