// Package metrics exposes Prometheus instrumentation for scoring requests and
// the network lookups the feature extractor performs.
package metrics

import (
	"net/http"
	"time"

	"github.com/Bahjat/phishguard/internal/platform/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phishguard"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec
	PredictionFailures prometheus.Counter
	ExtractionDuration prometheus.Histogram

	LookupDuration *prometheus.HistogramVec
	LookupFailures *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates and registers all metrics on reg. A nil reg gets a fresh
// registry, which keeps tests independent of the global default.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	factory := promauto.With(reg)
	m := &Metrics{gatherer: reg}

	m.PredictionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total URLs scored, by predicted label",
	}, []string{"label"})

	m.PredictionFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_failures_total",
		Help:      "Total scoring requests the classifier could not answer",
	})

	m.ExtractionDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extraction_duration_seconds",
		Help:      "Time to build one feature vector",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	})

	m.LookupDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_duration_seconds",
		Help:      "Duration of outbound lookups made during extraction",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"source"})

	m.LookupFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookup_failures_total",
		Help:      "Outbound lookups that fell back to the suspicious default",
	}, []string{"source", "kind"})

	return m
}

// ObserveLookup records one outbound lookup. It satisfies the extractor's
// observer hook.
func (m *Metrics) ObserveLookup(source string, took time.Duration, err error) {
	m.LookupDuration.WithLabelValues(source).Observe(took.Seconds())
	if err != nil {
		m.LookupFailures.WithLabelValues(source, errs.KindOf(err).String()).Inc()
	}
}

// ObserveExtraction records how long one feature vector took to build.
func (m *Metrics) ObserveExtraction(took time.Duration) {
	m.ExtractionDuration.Observe(took.Seconds())
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObservePrediction counts one scored URL under its label.
func (m *Metrics) ObservePrediction(label string) {
	m.PredictionsTotal.WithLabelValues(label).Inc()
}

// ObservePredictionFailure counts one request the classifier could not answer.
func (m *Metrics) ObservePredictionFailure() {
	m.PredictionFailures.Inc()
}
