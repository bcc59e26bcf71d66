// Package metrics exports evaluator activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

// Observer is an itemvalue.PassObserver recording Prometheus metrics.
type Observer struct {
	passes        *prometheus.CounterVec
	changedPasses *prometheus.CounterVec
	itemsSeen     *prometheus.CounterVec
	flagChanges   *prometheus.CounterVec
	faults        prometheus.Counter
	duration      *prometheus.HistogramVec
}

// NewObserver registers the evaluator metrics with reg. A nil reg uses the
// default registerer.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Observer{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choices",
			Subsystem: "evaluator",
			Name:      "passes_total",
			Help:      "Total evaluator passes",
		}, []string{"kind"}),
		changedPasses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choices",
			Subsystem: "evaluator",
			Name:      "changed_passes_total",
			Help:      "Evaluator passes that changed at least one flag",
		}, []string{"kind"}),
		itemsSeen: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choices",
			Subsystem: "evaluator",
			Name:      "items_evaluated_total",
			Help:      "Items visited by evaluator passes",
		}, []string{"kind"}),
		flagChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "choices",
			Subsystem: "evaluator",
			Name:      "flag_changes_total",
			Help:      "Visibility or enablement flags flipped by evaluator passes",
		}, []string{"kind"}),
		faults: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "choices",
			Subsystem: "evaluator",
			Name:      "runner_faults_total",
			Help:      "Conditions that failed to compile or run and were treated as true",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "choices",
			Subsystem: "evaluator",
			Name:      "pass_duration_seconds",
			Help:      "Evaluator pass latency in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"kind"}),
	}
}

// PassCompleted implements itemvalue.PassObserver.
func (o *Observer) PassCompleted(stats itemvalue.PassStats) {
	kind := string(stats.Kind)
	o.passes.WithLabelValues(kind).Inc()
	if stats.Changed > 0 {
		o.changedPasses.WithLabelValues(kind).Inc()
	}
	o.itemsSeen.WithLabelValues(kind).Add(float64(stats.Items))
	o.flagChanges.WithLabelValues(kind).Add(float64(stats.Changed))
	o.duration.WithLabelValues(kind).Observe(stats.Duration.Seconds())
}

// RunnerFault implements itemvalue.PassObserver.
func (o *Observer) RunnerFault(*itemvalue.Item, string, error) {
	o.faults.Inc()
}
