// Package metrics provides Prometheus instrumentation for a margin matching run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "margin_saving"

// Metrics collectors for one process. Registered on their own registry so a
// batch run can export them to a textfile.
type Metrics struct {
	Registry *prometheus.Registry

	// RowsLoaded counts accepted input rows, partitioned by source kind.
	RowsLoaded *prometheus.CounterVec

	// RowsSkipped counts malformed input rows, partitioned by source kind.
	RowsSkipped *prometheus.CounterVec

	// Results counts emitted pair results by kind (paired, unpaired).
	Results *prometheus.CounterVec

	// LotsMatched counts lots consumed by combinations or valued standalone.
	LotsMatched *prometheus.CounterVec

	// ResidualsDropped counts residual keys with no standalone combination.
	ResidualsDropped prometheus.Counter

	// AccountsProcessed counts finished per-account passes.
	AccountsProcessed prometheus.Counter

	// AccountPassDuration per-account matching latency.
	AccountPassDuration prometheus.Histogram
}

// New creates and registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RowsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Input rows accepted by the loaders",
		}, []string{"source"}),
		RowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Malformed input rows skipped by the loaders",
		}, []string{"source"}),
		Results: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Pair results emitted",
		}, []string{"kind"}),
		LotsMatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lots_total",
			Help:      "Lots allocated to combinations or valued standalone",
		}, []string{"kind"}),
		ResidualsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "residuals_dropped_total",
			Help:      "Residual positions without a standalone combination",
		}),
		AccountsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_processed_total",
			Help:      "Accounts matched",
		}),
		AccountPassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "account_pass_duration_seconds",
			Help:      "Duration of one account matching pass",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
	}
}

// ObserveLoad records loader row counters.
func (m *Metrics) ObserveLoad(source string, loaded, skipped int) {
	if m == nil {
		return
	}
	m.RowsLoaded.WithLabelValues(source).Add(float64(loaded))
	m.RowsSkipped.WithLabelValues(source).Add(float64(skipped))
}

// ObservePaired records one paired result consuming lots.
func (m *Metrics) ObservePaired(lots int64) {
	if m == nil {
		return
	}
	m.Results.WithLabelValues("paired").Inc()
	m.LotsMatched.WithLabelValues("paired").Add(float64(lots))
}

// ObserveUnpaired records one standalone result of lots.
func (m *Metrics) ObserveUnpaired(lots int64) {
	if m == nil {
		return
	}
	m.Results.WithLabelValues("unpaired").Inc()
	m.LotsMatched.WithLabelValues("unpaired").Add(float64(lots))
}

// ObserveDropped records a residual without a standalone combination.
func (m *Metrics) ObserveDropped() {
	if m == nil {
		return
	}
	m.ResidualsDropped.Inc()
}

// ObserveAccount records a finished account pass.
func (m *Metrics) ObserveAccount(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AccountsProcessed.Inc()
	m.AccountPassDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
