// Package metrics exposes ledger activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitledger"

// Metrics implements ledger.Observer on top of a Prometheus registry.
type Metrics struct {
	registry     *prometheus.Registry
	mutations    *prometheus.CounterVec
	saveFailures prometheus.Counter
	expenses     prometheus.Gauge
}

// New registers the ledger collectors, plus Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Ledger mutations by operation and result.",
		}, []string{"op", "result"}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_save_failures_total",
			Help:      "Snapshot saves that returned an error.",
		}),
		expenses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses",
			Help:      "Number of expenses in the ledger.",
		}),
	}

	m.registry.MustRegister(
		m.mutations,
		m.saveFailures,
		m.expenses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// MutationApplied counts a mutation attempt.
func (m *Metrics) MutationApplied(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// SnapshotSaveFailed counts a failed save.
func (m *Metrics) SnapshotSaveFailed() {
	m.saveFailures.Inc()
}

// ExpenseCount records the expense collection size.
func (m *Metrics) ExpenseCount(n int) {
	m.expenses.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
