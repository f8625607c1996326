// Package metrics provides Prometheus metrics for the training analytics service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Business metrics
	appointmentsCreated   prometheus.Counter
	appointmentsCancelled prometheus.Counter
	bookingsRejected      *prometheus.CounterVec
	computeLatency        *prometheus.HistogramVec

	// Store
	storeRecords *prometheus.GaugeVec
	storeReloads prometheus.Counter

	// Ingestion
	sessionsIngested  prometheus.Counter
	sessionsDuplicate prometheus.Counter
	sessionsRejected  prometheus.Counter
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueueErr   *prometheus.CounterVec
	workerCount       prometheus.Gauge
	workerLatency     prometheus.Histogram
	workerErrors      prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "toca",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix != "" {
		return m.metricPrefix + "_" + n
	}
	return n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help, ConstLabels: constLabels,
		})
	}
	histVec := func(name, help string, labels ...string) *prometheus.HistogramVec {
		return auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
			Buckets: m.histogramBuckets, ConstLabels: constLabels,
		}, labels)
	}

	m.appointmentsCreated = counter("appointments_created_total", "Total number of appointments booked")
	m.appointmentsCancelled = counter("appointments_cancelled_total", "Total number of appointments cancelled")
	m.bookingsRejected = counterVec("bookings_rejected_total", "Booking attempts rejected by reason", "reason")
	m.computeLatency = histVec("compute_latency_milliseconds", "Latency of derived computations by operation", "operation")

	m.storeRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("store_records"),
		Help: "Number of records held per collection", ConstLabels: constLabels,
	}, []string{"collection"})
	m.storeReloads = counter("store_reloads_total", "Total number of data reloads")

	m.sessionsIngested = counter("sessions_ingested_total", "Training sessions appended through ingestion")
	m.sessionsDuplicate = counter("sessions_duplicate_total", "Training sessions dropped as duplicates")
	m.sessionsRejected = counter("sessions_rejected_total", "Training sessions rejected by the ingestion workers")
	m.queueSize = gauge("ingest_queue_size", "Current size of the ingestion queue")
	m.queueCapacity = gauge("ingest_queue_capacity", "Configured capacity of the ingestion queue")
	m.queueEnqueueErr = counterVec("ingest_enqueue_errors_total", "Failed enqueue attempts by reason", "reason")
	m.workerCount = gauge("worker_count", "Number of ingestion workers")
	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("worker_processing_latency_milliseconds"),
		Help: "Time spent appending one ingested session", Buckets: m.histogramBuckets, ConstLabels: constLabels,
	})
	m.workerErrors = counter("worker_errors_total", "Errors raised by ingestion workers")

	m.httpRequests = counterVec("http_requests_total", "Total number of HTTP requests by route and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = histVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")
	m.errorsByEndpoint = counterVec("http_errors_total", "HTTP errors by route, method and error type",
		"endpoint", "method", "error_type")

	m.systemMemoryUsage = gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = gauge("system_goroutines", "Number of goroutines")
}

func enabled() bool { return globalManager != nil && globalManager.enabled }

// RecordAppointmentCreated increments the booked appointments counter.
func RecordAppointmentCreated() {
	if enabled() {
		globalManager.appointmentsCreated.Inc()
	}
}

// RecordAppointmentCancelled increments the cancelled appointments counter.
func RecordAppointmentCancelled() {
	if enabled() {
		globalManager.appointmentsCancelled.Inc()
	}
}

// RecordBookingRejected counts a refused booking (e.g. "slot_taken", "in_past").
func RecordBookingRejected(reason string) {
	if enabled() {
		globalManager.bookingsRejected.WithLabelValues(reason).Inc()
	}
}

// RecordComputeLatency records how long a derived computation took.
func RecordComputeLatency(operation string, latencyMs float64) {
	if enabled() {
		globalManager.computeLatency.WithLabelValues(operation).Observe(latencyMs)
	}
}

// UpdateStoreRecords sets the record count of a collection.
func UpdateStoreRecords(collection string, count int) {
	if enabled() {
		globalManager.storeRecords.WithLabelValues(collection).Set(float64(count))
	}
}

// RecordStoreReload increments the reload counter.
func RecordStoreReload() {
	if enabled() {
		globalManager.storeReloads.Inc()
	}
}

// RecordSessionIngested increments the ingested sessions counter.
func RecordSessionIngested() {
	if enabled() {
		globalManager.sessionsIngested.Inc()
	}
}

// RecordSessionDuplicate increments the duplicate sessions counter.
func RecordSessionDuplicate() {
	if enabled() {
		globalManager.sessionsDuplicate.Inc()
	}
}

// RecordSessionRejected increments the rejected sessions counter.
func RecordSessionRejected() {
	if enabled() {
		globalManager.sessionsRejected.Inc()
	}
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	if enabled() {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if enabled() {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// RecordQueueEnqueueError counts a failed enqueue by reason.
func RecordQueueEnqueueError(reason string) {
	if enabled() {
		globalManager.queueEnqueueErr.WithLabelValues(reason).Inc()
	}
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	if enabled() {
		globalManager.workerCount.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if enabled() {
		globalManager.workerLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if enabled() {
		globalManager.workerErrors.Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if enabled() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if enabled() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if enabled() {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if enabled() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if enabled() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval reports how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	if globalManager == nil {
		return defaultRefreshInterval
	}
	return globalManager.refreshInterval
}
