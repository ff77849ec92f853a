// Package prometheusobs reports Executor run progress as Prometheus
// metrics, grounded on the teacher's pkg/metrics package: a namespaced
// set of promauto-registered collectors plus an HTTP handler for the
// /metrics endpoint.
package prometheusobs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-argmin/argmin/kv"
	"github.com/go-argmin/argmin/observer"
)

// Metrics is the set of collectors one Observer reports through.
// Namespace and subsystem follow the teacher's InitMetrics shape.
type Metrics struct {
	runsStarted   *prometheus.CounterVec
	iterations    *prometheus.CounterVec
	bestCost      *prometheus.GaugeVec
	newBestsTotal *prometheus.CounterVec
}

// NewMetrics registers a fresh collector set under namespace/subsystem.
// Call this once per process; pass the result to New for every run.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		runsStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_started_total",
				Help:      "Total number of Executor runs started, by solver name.",
			},
			[]string{"solver"},
		),
		iterations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "iterations_total",
				Help:      "Total number of iterations observed, by solver name.",
			},
			[]string{"solver"},
		),
		bestCost: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "best_cost",
				Help:      "Best cost seen so far in the current run, by solver name.",
			},
			[]string{"solver"},
		),
		newBestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "new_bests_total",
				Help:      "Total number of iterations that improved the best cost.",
			},
			[]string{"solver"},
		),
	}
}

// Handler returns the HTTP handler serving /metrics in the Prometheus
// text exposition format.
func Handler() http.Handler { return promhttp.Handler() }

// RunsStartedFor returns the runs_started counter for solver, for tests
// and ad-hoc inspection; production code should scrape /metrics instead.
func (m *Metrics) RunsStartedFor(solver string) prometheus.Counter {
	return m.runsStarted.WithLabelValues(solver)
}

// NewBestsFor returns the new_bests counter for solver.
func (m *Metrics) NewBestsFor(solver string) prometheus.Counter {
	return m.newBestsTotal.WithLabelValues(solver)
}

// Observer reports one run's progress into a Metrics collector set,
// labeling every series with the solver name observed at init.
type Observer struct {
	metrics *Metrics
	solver  string
}

// New returns an Observer reporting into metrics.
func New(metrics *Metrics) *Observer {
	return &Observer{metrics: metrics}
}

func (o *Observer) ObserveInit(name string, st observer.StateView, snapshot *kv.KV) error {
	o.solver = name
	o.metrics.runsStarted.WithLabelValues(name).Inc()
	o.metrics.bestCost.WithLabelValues(name).Set(st.BestCostF64())
	return nil
}

func (o *Observer) ObserveIter(st observer.StateView, snapshot *kv.KV) error {
	o.metrics.iterations.WithLabelValues(o.solver).Inc()
	o.metrics.bestCost.WithLabelValues(o.solver).Set(st.BestCostF64())
	if st.IsBest() {
		o.metrics.newBestsTotal.WithLabelValues(o.solver).Inc()
	}
	return nil
}
