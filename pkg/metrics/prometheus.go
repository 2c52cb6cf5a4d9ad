// Package metrics provides Prometheus metrics for the windrose trace service.
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

// Manager manages all Prometheus metrics for the windrose service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine metrics
	computations    *prometheus.CounterVec
	computeErrors   *prometheus.CounterVec
	computeLatency  *prometheus.HistogramVec
	tracesEmitted   *prometheus.CounterVec
	samples         prometheus.Counter
	optionIssues    *prometheus.CounterVec
	renders         *prometheus.CounterVec
	renderLatency   *prometheus.HistogramVec
	memoHits        prometheus.Counter
	memoMisses      prometheus.Counter
	memoEntries     prometheus.Gauge
	memoEvictions   prometheus.Gauge
	fanSamplesGauge prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
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
		namespace:        "windrose",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.computations = auto.NewCounterVec(
		m.counterOpts("computations_total", "Total number of trace computations by plot mode"),
		[]string{"plot"},
	)
	m.computeErrors = auto.NewCounterVec(
		m.counterOpts("computation_errors_total", "Total number of failed computations by reason"),
		[]string{"reason"},
	)
	m.computeLatency = auto.NewHistogramVec(
		m.histogramOpts("compute_latency_milliseconds", "Histogram of trace computation latency in milliseconds"),
		[]string{"plot"},
	)
	m.tracesEmitted = auto.NewCounterVec(
		m.counterOpts("traces_emitted_total", "Total number of traces emitted by plot mode"),
		[]string{"plot"},
	)
	m.samples = auto.NewCounter(
		m.counterOpts("samples_processed_total", "Total number of samples that reached a plot"),
	)
	m.optionIssues = auto.NewCounterVec(
		m.counterOpts("option_issues_total", "Total number of option values reset to their default"),
		[]string{"field"},
	)
	m.renders = auto.NewCounterVec(
		m.counterOpts("renders_total", "Total number of rendered previews by format"),
		[]string{"format"},
	)
	m.renderLatency = auto.NewHistogramVec(
		m.histogramOpts("render_latency_milliseconds", "Histogram of preview rendering latency in milliseconds"),
		[]string{"format"},
	)

	m.memoHits = auto.NewCounter(m.counterOpts("memo_hits_total", "Total number of computations served from the memo"))
	m.memoMisses = auto.NewCounter(m.counterOpts("memo_misses_total", "Total number of computations not found in the memo"))
	m.memoEntries = auto.NewGauge(m.gaugeOpts("memo_entries", "Current number of memoised results"))
	m.memoEvictions = auto.NewGauge(m.gaugeOpts("memo_evictions", "Number of memo evictions since start"))
	m.fanSamplesGauge = auto.NewGauge(m.gaugeOpts("fan_samples", "Configured arc points per wind-rose sector"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "Total number of HTTP error responses by endpoint and error code"),
		[]string{"endpoint", "method", "error_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Current heap allocation in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// RefreshInterval is how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is on.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordComputation records a successful computation.
func (m *Manager) RecordComputation(plot string, traces, samples int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.computations.WithLabelValues(plot).Inc()
	m.tracesEmitted.WithLabelValues(plot).Add(float64(traces))
	m.samples.Add(float64(samples))
	m.computeLatency.WithLabelValues(plot).Observe(latencyMs)
}

// RecordComputationError records a failed computation.
func (m *Manager) RecordComputationError(reason string) {
	if !m.enabled {
		return
	}
	m.computeErrors.WithLabelValues(reason).Inc()
}

// RecordOptionIssue records an option value reset to its default.
func (m *Manager) RecordOptionIssue(field string) {
	if !m.enabled {
		return
	}
	m.optionIssues.WithLabelValues(field).Inc()
}

// RecordRender records a rendered preview.
func (m *Manager) RecordRender(format string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.renders.WithLabelValues(format).Inc()
	m.renderLatency.WithLabelValues(format).Observe(latencyMs)
}

// RecordMemoLookup records a memo hit or miss.
func (m *Manager) RecordMemoLookup(hit bool) {
	if !m.enabled {
		return
	}
	if hit {
		m.memoHits.Inc()
		return
	}
	m.memoMisses.Inc()
}

// UpdateMemo sets the memo size gauges.
func (m *Manager) UpdateMemo(entries, evictions int64) {
	if !m.enabled {
		return
	}
	m.memoEntries.Set(float64(entries))
	m.memoEvictions.Set(float64(evictions))
}

// UpdateFanSamples sets the configured fan samples gauge.
func (m *Manager) UpdateFanSamples(n int) {
	if !m.enabled {
		return
	}
	m.fanSamplesGauge.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func (m *Manager) RecordHTTPError(endpoint, method, code string) {
	if !m.enabled {
		return
	}
	m.httpErrors.WithLabelValues(endpoint, method, code).Inc()
}

// UpdateSystem sets the system gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, gcPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if gcPauseMs > 0 {
		m.systemGCPauseTime.Observe(gcPauseMs)
	}
}

// Global recording functions delegate to the default manager.

// RecordComputation records a successful computation.
func RecordComputation(plot string, traces, samples int, latencyMs float64) {
	globalManager.RecordComputation(plot, traces, samples, latencyMs)
}

// RecordComputationError records a failed computation.
func RecordComputationError(reason string) {
	globalManager.RecordComputationError(reason)
}

// RecordOptionIssue records an option value reset to its default.
func RecordOptionIssue(field string) {
	globalManager.RecordOptionIssue(field)
}

// RecordRender records a rendered preview.
func RecordRender(format string, latencyMs float64) {
	globalManager.RecordRender(format, latencyMs)
}

// RecordMemoLookup records a memo hit or miss.
func RecordMemoLookup(hit bool) {
	globalManager.RecordMemoLookup(hit)
}

// UpdateMemo sets the memo size gauges.
func UpdateMemo(entries, evictions int64) {
	globalManager.UpdateMemo(entries, evictions)
}

// UpdateFanSamples sets the configured fan samples gauge.
func UpdateFanSamples(n int) {
	globalManager.UpdateFanSamples(n)
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, code string) {
	globalManager.RecordHTTPError(endpoint, method, code)
}

// UpdateSystem sets the system gauges.
func UpdateSystem(memoryBytes uint64, goroutines int, gcPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, gcPauseMs)
}

// RefreshInterval is how often the default manager's gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
