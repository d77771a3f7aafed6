// Package metrics exposes Prometheus instruments for searches and applies.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics holds the instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	searchesTotal      *prometheus.CounterVec
	searchResults      prometheus.Histogram
	searchLatency      prometheus.Histogram
	appliesTotal       *prometheus.CounterVec
	applyLatency       *prometheus.HistogramVec
	expansionFailures  prometheus.Counter
	catalogReloadTotal *prometheus.CounterVec
}

// New creates the instruments and registers them on reg.
// A nil reg registers nothing, which suits tests and one-shot commands.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: outcome (ok, empty, unavailable, error)
		searchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winregi",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total searches by outcome",
		}, []string{"outcome"}),

		searchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "winregi",
			Subsystem: "search",
			Name:      "results",
			Help:      "Number of ranked results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		}),

		searchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "winregi",
			Subsystem: "search",
			Name:      "latency_seconds",
			Help:      "Search latency including catalog load",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),

		// Labels: kind (registry-write, powershell-command, ...), state (applied, failed, declined, confirmation-pending)
		appliesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winregi",
			Subsystem: "apply",
			Name:      "outcomes_total",
			Help:      "Apply outcomes by action kind and resulting state",
		}, []string{"kind", "state"}),

		applyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "winregi",
			Subsystem: "apply",
			Name:      "execution_seconds",
			Help:      "Executor latency by action kind",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"kind"}),

		expansionFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "winregi",
			Subsystem: "search",
			Name:      "expansion_failures_total",
			Help:      "Query expansions that failed and fell back to plain matching",
		}),

		// Labels: status (ok, failed)
		catalogReloadTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winregi",
			Subsystem: "catalog",
			Name:      "reloads_total",
			Help:      "Catalog file reloads by status",
		}, []string{"status"}),
	}
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(outcome string, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(elapsed.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		m.searchResults.Observe(float64(results))
	}
}

// ObserveApply records an apply outcome. elapsed is zero when the executor did not run.
func (m *Metrics) ObserveApply(kind, state string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.appliesTotal.WithLabelValues(kind, state).Inc()
	if elapsed > 0 {
		m.applyLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

// ExpansionFailed records a failed query expansion.
func (m *Metrics) ExpansionFailed() {
	if m == nil {
		return
	}
	m.expansionFailures.Inc()
}

// CatalogReloaded records a catalog reload attempt.
func (m *Metrics) CatalogReloaded(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.catalogReloadTotal.WithLabelValues(status).Inc()
}
