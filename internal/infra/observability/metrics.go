package observability

import (
	"time"

	"github.com/boddenberg/banco-sim-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the simulator.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can serve it.
	Registry *prometheus.Registry

	operationDuration *prometheus.HistogramVec
	transactionsTotal *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	webhookDeliveries *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bancosim_operation_duration_seconds",
				Help:    "Duration of banking operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		transactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bancosim_transactions_total",
				Help: "Transactions processed by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bancosim_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bancosim_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		webhookDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bancosim_webhook_deliveries_total",
				Help: "Webhook delivery attempts by outcome.",
			},
			[]string{"status"},
		),
	}
}

// RecordOperationDuration records the duration of a banking operation.
func (m *Metrics) RecordOperationDuration(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrTransaction counts a processed transaction by kind and outcome.
func (m *Metrics) IncrTransaction(kind domain.TransactionKind, status string) {
	m.transactionsTotal.WithLabelValues(string(kind), status).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrWebhookDelivery counts a webhook delivery attempt by outcome.
func (m *Metrics) IncrWebhookDelivery(status string) {
	m.webhookDeliveries.WithLabelValues(status).Inc()
}

// OperationsSnapshot reads back the cumulative transaction counters for
// the GET /v1/metrics/summary endpoint.
func (m *Metrics) OperationsSnapshot() *domain.OperationsSummary {
	deposits := getCounterValue(m.transactionsTotal, string(domain.KindDeposit), "success")
	withdrawals := getCounterValue(m.transactionsTotal, string(domain.KindWithdrawal), "success")
	rejected := getCounterValue(m.transactionsTotal, string(domain.KindDeposit), "rejected") +
		getCounterValue(m.transactionsTotal, string(domain.KindWithdrawal), "rejected")

	hits := getCounterValue(m.cacheHits, "statement")
	misses := getCounterValue(m.cacheMisses, "statement")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.OperationsSummary{
		Deposits:     int64(deposits),
		Withdrawals:  int64(withdrawals),
		Rejected:     int64(rejected),
		CacheHitRate: hitRate,
		Period:       "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
