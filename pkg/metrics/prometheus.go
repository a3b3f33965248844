// Package metrics provides Prometheus metrics for the energy analytics dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default latency buckets, in milliseconds.
var (
	defaultRenderBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	defaultHTTPBuckets   = prometheus.ExponentialBuckets(1, 2, 12)
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace     string
	subsystem     string
	renderBuckets []float64
	httpBuckets   []float64
	constLabels   map[string]string
	registry      prometheus.Registerer

	// Pipeline metrics
	renders         *prometheus.CounterVec
	renderLatency   prometheus.Histogram
	forecasts       prometheus.Counter
	forecastErrors  prometheus.Counter
	forecastValue   prometheus.Gauge
	datasetRows     prometheus.Gauge
	modelLoaded     prometheus.Gauge
	uploadsAccepted prometheus.Counter
	uploadsRejected *prometheus.CounterVec
	activeSessions  prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:     "energy",
		subsystem:     "dashboard",
		renderBuckets: defaultRenderBuckets,
		httpBuckets:   defaultHTTPBuckets,
		registry:      prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.renders = m.counterVec("renders_total", "Dashboard renders by outcome (ok, halted, absent, invalid, empty, predict_error)", "outcome")
	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_latency_milliseconds",
		Help:        "Time spent producing one dashboard view",
		Buckets:     m.renderBuckets,
		ConstLabels: m.constLabels,
	})
	m.forecasts = m.counter("forecasts_total", "Successful next-hour forecasts")
	m.forecastErrors = m.counter("forecast_errors_total", "Predictor failures")
	m.forecastValue = m.gauge("forecast_kwh", "Most recent predicted next-hour consumption in kWh")
	m.datasetRows = m.gauge("dataset_rows", "Rows in the most recently rendered dataset")
	m.modelLoaded = m.gauge("model_loaded", "1 when the forecast model is loaded, 0 otherwise")
	m.uploadsAccepted = m.counter("uploads_accepted_total", "CSV uploads that replaced a session dataset")
	m.uploadsRejected = m.counterVec("uploads_rejected_total", "CSV uploads rejected by reason", "reason")
	m.activeSessions = m.gauge("active_sessions", "Sessions currently held in memory")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.httpBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RecordRender counts one view render with its outcome and latency.
func RecordRender(outcome string, latencyMs float64) {
	globalManager.renders.WithLabelValues(outcome).Inc()
	globalManager.renderLatency.Observe(latencyMs)
}

// RecordForecast records a successful forecast and its value.
func RecordForecast(value float64) {
	globalManager.forecasts.Inc()
	globalManager.forecastValue.Set(value)
}

// RecordForecastError counts a predictor failure.
func RecordForecastError() {
	globalManager.forecastErrors.Inc()
}

// UpdateDatasetRows sets the row count of the last rendered dataset.
func UpdateDatasetRows(rows int) {
	globalManager.datasetRows.Set(float64(rows))
}

// SetModelLoaded flags whether a predictor is available.
func SetModelLoaded(loaded bool) {
	if loaded {
		globalManager.modelLoaded.Set(1)
		return
	}
	globalManager.modelLoaded.Set(0)
}

// RecordUploadAccepted counts an upload that replaced a dataset.
func RecordUploadAccepted() {
	globalManager.uploadsAccepted.Inc()
}

// RecordUploadRejected counts a rejected upload.
func RecordUploadRejected(reason string) {
	globalManager.uploadsRejected.WithLabelValues(reason).Inc()
}

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry for use with promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
