// Package metrics provides Prometheus metrics for the grid builder service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the grid builder.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Ingest Metrics - Result file intake
	filesParsed   *prometheus.CounterVec
	filesRejected *prometheus.CounterVec
	parseLatency  *prometheus.HistogramVec

	// Session Metrics - Uploaded data and the consolidated roster
	uploadedFiles        prometheus.Gauge
	rosterDrivers        prometheus.Gauge
	configuredWaves      prometheus.Gauge
	consolidationRuns    prometheus.Counter
	consolidationLatency prometheus.Histogram

	// Grid Metrics - Realization and its outcome
	gridBuilds        prometheus.Counter
	gridBuildFailures *prometheus.CounterVec
	gridBuildLatency  prometheus.Histogram
	gridWaves         prometheus.Gauge
	gridEntries       prometheus.Gauge

	// Mutation Metrics - Manual grid adjustments
	gridMutations *prometheus.CounterVec
	guardDrops    *prometheus.CounterVec
	gridResets    *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "myraceday",
		subsystem:        "gridbuilder",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
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
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Ingest Metrics - Intake volume and rejection reasons
	m.filesParsed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "files_parsed_total",
			Help:      "Total number of result files parsed successfully, by format",
		},
		[]string{"format"},
	)

	m.filesRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "files_rejected_total",
			Help:      "Total number of result files rejected whole, by format and reason",
		},
		[]string{"format", "reason"},
	)

	m.parseLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "parse_latency_milliseconds",
			Help:      "Histogram of result file parse latency in milliseconds, by format",
			Buckets:   m.histogramBuckets,
		},
		[]string{"format"},
	)

	// Session Metrics - Current session scale
	m.uploadedFiles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "uploaded_files",
		Help:      "Current number of uploaded result files in the session",
	})

	m.rosterDrivers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_drivers",
		Help:      "Current number of consolidated drivers in the roster",
	})

	m.configuredWaves = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "configured_waves",
		Help:      "Current number of configured waves",
	})

	m.consolidationRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consolidation_runs_total",
		Help:      "Total number of roster consolidation recomputes",
	})

	m.consolidationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consolidation_latency_milliseconds",
		Help:      "Histogram of roster consolidation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Grid Metrics - Realization outcomes
	m.gridBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_builds_total",
		Help:      "Total number of grids built successfully",
	})

	m.gridBuildFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "grid_build_failures_total",
			Help:      "Total number of rejected grid builds, by reason",
		},
		[]string{"reason"},
	)

	m.gridBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_build_latency_milliseconds",
		Help:      "Histogram of grid build latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.gridWaves = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_waves",
		Help:      "Number of waves in the last built grid",
	})

	m.gridEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_entries",
		Help:      "Number of entries in the last built grid",
	})

	// Mutation Metrics - Manual adjustments after the build
	m.gridMutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "grid_mutations_total",
			Help:      "Total number of grid mutation requests, by operation and outcome",
		},
		[]string{"operation", "applied"},
	)

	m.guardDrops = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "guard_drops_total",
			Help:      "Total number of mutation requests dropped by the class move guard",
		},
		[]string{"operation"},
	)

	m.gridResets = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "grid_resets_total",
			Help:      "Total number of grid restores from the build snapshot, by scope",
		},
		[]string{"scope"},
	)

	// HTTP Performance Metrics - User experience indicators
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

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Ingest Metrics Functions.

// RecordFileParsed increments the parsed files counter for a format.
func RecordFileParsed(format string) {
	globalManager.filesParsed.WithLabelValues(format).Inc()
}

// RecordFileRejected increments the rejected files counter.
func RecordFileRejected(format, reason string) {
	globalManager.filesRejected.WithLabelValues(format, reason).Inc()
}

// RecordParseLatency records file parse latency in milliseconds.
func RecordParseLatency(format string, latencyMs float64) {
	globalManager.parseLatency.WithLabelValues(format).Observe(latencyMs)
}

// Session Metrics Functions.

// UpdateUploadedFiles sets the current uploaded file count.
func UpdateUploadedFiles(count int) {
	globalManager.uploadedFiles.Set(float64(count))
}

// UpdateRosterDrivers sets the current consolidated driver count.
func UpdateRosterDrivers(count int) {
	globalManager.rosterDrivers.Set(float64(count))
}

// UpdateConfiguredWaves sets the current configured wave count.
func UpdateConfiguredWaves(count int) {
	globalManager.configuredWaves.Set(float64(count))
}

// RecordConsolidationRun counts a roster recompute and its latency.
func RecordConsolidationRun(latencyMs float64) {
	globalManager.consolidationRuns.Inc()
	globalManager.consolidationLatency.Observe(latencyMs)
}

// Grid Metrics Functions.

// RecordGridBuild counts a successful build and its latency.
func RecordGridBuild(latencyMs float64) {
	globalManager.gridBuilds.Inc()
	globalManager.gridBuildLatency.Observe(latencyMs)
}

// RecordGridBuildFailure increments the build failure counter for a reason.
func RecordGridBuildFailure(reason string) {
	globalManager.gridBuildFailures.WithLabelValues(reason).Inc()
}

// UpdateGridWaves sets the wave count of the last built grid.
func UpdateGridWaves(count int) {
	globalManager.gridWaves.Set(float64(count))
}

// UpdateGridEntries sets the entry count of the last built grid.
func UpdateGridEntries(count int) {
	globalManager.gridEntries.Set(float64(count))
}

// Mutation Metrics Functions.

// RecordGridMutation records a mutation request and whether it was applied.
func RecordGridMutation(operation string, applied bool) {
	globalManager.gridMutations.WithLabelValues(operation, strconv.FormatBool(applied)).Inc()
}

// RecordGuardDrop increments the guard drop counter for an operation.
func RecordGuardDrop(operation string) {
	globalManager.guardDrops.WithLabelValues(operation).Inc()
}

// RecordGridReset increments the reset counter for a scope.
func RecordGridReset(scope string) {
	globalManager.gridResets.WithLabelValues(scope).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
