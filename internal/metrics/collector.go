// Package metrics counts evaluations and absorbed data anomalies in Prometheus form.
package metrics

import (
	"dema/internal/score"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dema"

// Collector implements score.Recorder on top of Prometheus metrics.
type Collector struct {
	registry    *prometheus.Registry
	evaluations prometheus.Counter
	anomalies   *prometheus.CounterVec
	scores      prometheus.Histogram
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Alternatives scored.",
		}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_total",
			Help:      "Data anomalies absorbed during evaluation, by kind.",
		}, []string{"kind"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Distribution of final scores.",
			Buckets:   []float64{0.15, 0.30, 0.45, 0.60, 0.75, 0.90, 1},
		}),
	}
	c.registry.MustRegister(c.evaluations, c.anomalies, c.scores)
	return c
}

func (c *Collector) RecordAnomaly(kind score.Anomaly) {
	c.anomalies.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) ObserveScore(s float64) {
	c.evaluations.Inc()
	c.scores.Observe(s)
}

// Gatherer exposes the collector's registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
