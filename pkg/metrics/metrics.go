// Package metrics provides Prometheus metrics for the fitting pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Trace ingestion
	tracesLoaded       prometheus.Counter
	preprocessDuration prometheus.Histogram

	// Fitting runs
	fitsStarted    prometheus.Counter
	fitsCompleted  *prometheus.CounterVec // labeled by final status
	fitsFailed     prometheus.Counter
	fitDuration    prometheus.Histogram
	objectiveEvals prometheus.Counter
	generations    prometheus.Gauge
	bestResidual   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pyrofit",
		subsystem:        "kinetics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tracesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "traces_loaded_total",
		Help:      "Total number of trace files loaded and preprocessed",
	})

	m.preprocessDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "preprocess_duration_seconds",
		Help:      "Histogram of conversion-curve derivation duration",
		Buckets:   m.histogramBuckets,
	})

	m.fitsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fits_started_total",
		Help:      "Total number of fitting runs started",
	})

	m.fitsCompleted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fits_completed_total",
		Help:      "Total number of fitting runs completed, by final status",
	}, []string{"status"})

	m.fitsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fits_failed_total",
		Help:      "Total number of fitting runs rejected or aborted with an error",
	})

	m.fitDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_duration_seconds",
		Help:      "Histogram of end-to-end fitting run duration",
		Buckets:   m.histogramBuckets,
	})

	m.objectiveEvals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "objective_evaluations_total",
		Help:      "Total number of objective-function evaluations across all runs",
	})

	m.generations = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_fit_generations",
		Help:      "Generations executed by the most recent fitting run",
	})

	m.bestResidual = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_fit_residual",
		Help:      "Residual achieved by the most recent fitting run",
	})
}

// Handler returns an HTTP handler serving the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

// RecordTraceLoaded counts a successfully loaded and preprocessed trace.
func RecordTraceLoaded() { globalManager.tracesLoaded.Inc() }

// ObservePreprocessDuration records a preprocessing duration in seconds.
func ObservePreprocessDuration(seconds float64) { globalManager.preprocessDuration.Observe(seconds) }

// RecordFitStarted counts a fitting run entering the population loop.
func RecordFitStarted() { globalManager.fitsStarted.Inc() }

// RecordFitCompleted counts a finished run under its final status.
func RecordFitCompleted(status string) { globalManager.fitsCompleted.WithLabelValues(status).Inc() }

// RecordFitFailed counts a run that ended with an error.
func RecordFitFailed() { globalManager.fitsFailed.Inc() }

// ObserveFitDuration records a fitting run duration in seconds.
func ObserveFitDuration(seconds float64) { globalManager.fitDuration.Observe(seconds) }

// AddObjectiveEvaluations adds the evaluation count of a finished run.
func AddObjectiveEvaluations(n int) { globalManager.objectiveEvals.Add(float64(n)) }

// SetLastGenerations publishes the generation count of the latest run.
func SetLastGenerations(n int) { globalManager.generations.Set(float64(n)) }

// SetLastResidual publishes the residual of the latest run.
func SetLastResidual(v float64) { globalManager.bestResidual.Set(v) }

// Handler returns the HTTP handler for the global registry.
func Handler() http.Handler { return globalManager.Handler() }
