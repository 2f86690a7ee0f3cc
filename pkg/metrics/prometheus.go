// Package metrics provides Prometheus metrics for the Assay analytics
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Assay service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dataset lifecycle
	datasetsLoaded   prometheus.Counter
	recordsValidated prometheus.Counter
	schemaErrors     prometheus.Counter

	// Query engine
	queries *prometheus.CounterVec

	// Report synthesis
	promptsSynthesized prometheus.Counter
	emptyScopePrompts  prometheus.Counter

	// Generation collaborator
	generationRequests prometheus.Counter
	generationErrors   *prometheus.CounterVec
	generationLatency  prometheus.Histogram

	// Storage collaborator
	storageErrors *prometheus.CounterVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "assay",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "datasets_loaded_total",
		Help:      "Total number of datasets validated and loaded",
	})

	m.recordsValidated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_validated_total",
		Help:      "Total number of assessment records accepted by the schema validator",
	})

	m.schemaErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schema_errors_total",
		Help:      "Total number of datasets rejected by the schema validator",
	})

	m.queries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "queries_total",
			Help:      "Total number of query engine reads by view",
		},
		[]string{"view"},
	)

	m.promptsSynthesized = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prompts_synthesized_total",
		Help:      "Total number of report prompts synthesized",
	})

	m.emptyScopePrompts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "empty_scope_prompts_total",
		Help:      "Total number of prompt requests rejected for an empty scope",
	})

	m.generationRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_requests_total",
		Help:      "Total number of requests sent to the text-generation collaborator",
	})

	m.generationErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "generation_errors_total",
			Help:      "Total number of generation failures by diagnostic category",
		},
		[]string{"category"},
	)

	m.generationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_latency_milliseconds",
		Help:      "Histogram of generation collaborator latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storageErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "storage_errors_total",
			Help:      "Total number of storage collaborator failures by operation",
		},
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP error responses by endpoint and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordDatasetLoaded increments the datasets loaded counter.
func RecordDatasetLoaded() {
	globalManager.datasetsLoaded.Inc()
}

// RecordRecordsValidated adds to the validated records counter.
func RecordRecordsValidated(count int) {
	globalManager.recordsValidated.Add(float64(count))
}

// RecordSchemaError increments the schema errors counter.
func RecordSchemaError() {
	globalManager.schemaErrors.Inc()
}

// RecordQuery increments the query counter for a view.
func RecordQuery(view string) {
	globalManager.queries.WithLabelValues(view).Inc()
}

// RecordPromptSynthesized increments the synthesized prompts counter.
func RecordPromptSynthesized() {
	globalManager.promptsSynthesized.Inc()
}

// RecordEmptyScopePrompt increments the empty-scope prompt counter.
func RecordEmptyScopePrompt() {
	globalManager.emptyScopePrompts.Inc()
}

// RecordGenerationRequest increments the generation requests counter.
func RecordGenerationRequest() {
	globalManager.generationRequests.Inc()
}

// RecordGenerationError increments the generation errors counter for a
// diagnostic category.
func RecordGenerationError(category string) {
	globalManager.generationErrors.WithLabelValues(category).Inc()
}

// RecordGenerationLatency records generation latency in milliseconds.
func RecordGenerationLatency(latencyMs float64) {
	globalManager.generationLatency.Observe(latencyMs)
}

// RecordStorageError increments the storage errors counter for an operation.
func RecordStorageError(op string) {
	globalManager.storageErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used for serving
// metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
