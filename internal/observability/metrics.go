package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded by ObserveLookup.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Classifier lookups from any surface.
	Lookups *prometheus.CounterVec // labels: operation={state,division,region,classify,validate}, outcome={success,invalid,not_found}

	// Kafka enrichment pipeline.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         *prometheus.CounterVec // labels: kind={parse,type,format,lookup}
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Lookups,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zip_census",
			Name:      "lookups_total",
			Help:      "ZIP code lookups by operation and outcome.",
		}, []string{"operation", "outcome"}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zip_census",
			Name:      "messages_consumed_total",
			Help:      "Total lookup requests read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zip_census",
			Name:      "messages_produced_total",
			Help:      "Total classifications written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zip_census",
			Name:      "transform_errors_total",
			Help:      "Lookup requests skipped by the pipeline, by failure kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zip_census",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zip_census",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zip_census",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveLookup counts one lookup. kind is the failure kind name
// ("type", "format", "lookup") or "none" on success.
func (m *Metrics) ObserveLookup(operation, kind string) {
	outcome := OutcomeSuccess
	switch kind {
	case "none", "":
	case "lookup":
		outcome = OutcomeNotFound
	default:
		outcome = OutcomeInvalid
	}
	m.Lookups.WithLabelValues(operation, outcome).Inc()
}
