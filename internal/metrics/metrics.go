// Package metrics exposes Prometheus metrics of pool actions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

var (
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_pool_actions_total",
			Help: "Pool actions by kind and outcome",
		},
		[]string{"action", "outcome"},
	)

	actionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swap_pool_action_duration_seconds",
			Help:    "Latency of pool actions",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"action"},
	)

	poolReserve = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swap_pool_reserve",
			Help: "Pool reserve per token after the last committed action",
		},
		[]string{"pool", "token"}, // token: a, b
	)

	poolSupply = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swap_pool_token_supply",
			Help: "Outstanding pool tokens after the last committed action",
		},
		[]string{"pool"},
	)
)

// ObserveAction records the outcome and latency of an action started at
// started.
func ObserveAction(action string, started time.Time, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeFailed
	}
	actionsTotal.WithLabelValues(action, outcome).Inc()
	actionDuration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}

// SetPoolState publishes the reserves and pool token supply of a pool.
func SetPoolState(pool string, reserveA, reserveB, supply uint64) {
	poolReserve.WithLabelValues(pool, "a").Set(float64(reserveA))
	poolReserve.WithLabelValues(pool, "b").Set(float64(reserveB))
	poolSupply.WithLabelValues(pool).Set(float64(supply))
}
