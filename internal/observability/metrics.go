package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	PredictionsServed *prometheus.CounterVec // labels: category={low,moderate,high,extreme}
	RequestErrors     *prometheus.CounterVec // labels: kind={invalid_request,data_unavailable,schema_mismatch,timeout,internal}
	PredictionsPublished prometheus.Counter
	PublishErrors        prometheus.Counter

	RequestDuration  prometheus.Histogram
	AssemblyDuration prometheus.Histogram

	ServiceReady   prometheus.Gauge
	ActiveModelAge prometheus.Gauge // seconds since the active model was trained
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PredictionsServed,
		m.RequestErrors,
		m.PredictionsPublished,
		m.PublishErrors,
		m.RequestDuration,
		m.AssemblyDuration,
		m.ServiceReady,
		m.ActiveModelAge,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_risk",
			Name:      "predictions_served_total",
			Help:      "Risk predictions returned to callers, by category.",
		}, []string{"category"}),
		RequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfire_risk",
			Name:      "request_errors_total",
			Help:      "Failed prediction requests, by failure kind.",
		}, []string{"kind"}),
		PredictionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire_risk",
			Name:      "predictions_published_total",
			Help:      "Predictions published to the Kafka sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfire_risk",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publishes of served predictions.",
		}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire_risk",
			Name:      "request_duration_seconds",
			Help:      "End-to-end prediction request duration.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		AssemblyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wildfire_risk",
			Name:      "feature_assembly_duration_seconds",
			Help:      "Duration of reference-store queries and feature assembly.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire_risk",
			Name:      "service_ready",
			Help:      "1 when an active model is published and stores are reachable.",
		}),
		ActiveModelAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfire_risk",
			Name:      "active_model_age_seconds",
			Help:      "Seconds since the active model was trained.",
		}),
	}
}
