// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	// Scan metrics
	ScanCycles        prometheus.Counter
	SnapshotsFetched  prometheus.Gauge
	BestScore         prometheus.Gauge
	ScanCycleDuration prometheus.Histogram

	// Trade metrics
	TradesExecuted  *prometheus.CounterVec
	PositionsOpen   prometheus.Gauge
	PositionsClosed *prometheus.CounterVec
	WalletBalance   prometheus.Gauge

	// Swap latency
	SwapDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "survival_bot"
	}

	return &Metrics{
		ScanCycles: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cycles_total",
			Help:      "Total number of scan cycles run",
		}),
		SnapshotsFetched: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "snapshots_fetched",
			Help:      "Number of token snapshots fetched in the last cycle",
		}),
		BestScore: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "best_score",
			Help:      "Score of the best opportunity in the last cycle",
		}),
		ScanCycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cycle_duration_seconds",
			Help:      "Full cycle duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		TradesExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "executed_total",
			Help:      "Total swap attempts by direction and outcome status",
		}, []string{"direction", "status"}),
		PositionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "positions_open",
			Help:      "Current number of open positions",
		}),
		PositionsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "positions_closed_total",
			Help:      "Total positions closed by exit reason",
		}, []string{"reason"}),
		WalletBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "wallet_balance_sol",
			Help:      "Wallet balance in SOL at the last sizing decision",
		}),

		SwapDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "swap_duration_seconds",
			Help:      "Swap execution duration in seconds, quote through confirmation",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"direction"}),
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
