package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
}

// NewPrometheusExporter creates a new Prometheus exporter registered on reg.
// A nil reg registers on the default registry.
func NewPrometheusExporter(reg prometheus.Registerer) *PrometheusExporter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusExporter{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupperm_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"transport", "method"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "groupperm_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"transport", "method"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupperm_errors_total",
				Help: "Total number of failed API requests",
			},
			[]string{"transport", "method"},
		),
		storeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "groupperm_store_operation_duration_seconds",
				Help:    "Duration of group store operations in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupperm_store_errors_total",
				Help: "Total number of failed group store operations by error kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(transport, method string) {
	e.requests.WithLabelValues(transport, method).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(transport, method string, durationSeconds float64) {
	e.duration.WithLabelValues(transport, method).Observe(durationSeconds)
}

// RecordError records an error in Prometheus.
func (e *PrometheusExporter) RecordError(transport, method string) {
	e.errors.WithLabelValues(transport, method).Inc()
}

// RecordStoreOperation records the duration of a store call.
func (e *PrometheusExporter) RecordStoreOperation(operation string, durationSeconds float64) {
	e.storeDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordStoreError records a failed store call.
func (e *PrometheusExporter) RecordStoreError(operation, kind string) {
	e.storeErrors.WithLabelValues(operation, kind).Inc()
}
