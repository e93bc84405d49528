package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hybrids").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hybrids",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a hybrid.Observer that records Prometheus metrics.
//
// Metrics collected:
//   - hybrids_flushes_total: Counter of flushed batches
//   - hybrids_invalidations_total: Counter of invalidated properties flushed
//   - hybrids_flush_errors_total: Counter of failed recomputations
//   - hybrids_flush_duration_seconds: Histogram of flush duration
//   - hybrids_pending_invalidations: Gauge of the batch being flushed
//   - hybrids_resolutions_total: Counter of parent resolutions by tag and result
type Metrics struct {
	flushesTotal       prometheus.Counter
	invalidationsTotal prometheus.Counter
	flushErrors        prometheus.Counter
	flushDuration      prometheus.Histogram
	pending            prometheus.Gauge
	resolutions        *prometheus.CounterVec
}

// defaultMetrics is shared by every observer bound to the default
// registerer, which rejects duplicate registration.
var (
	defaultMetrics   *Metrics
	defaultMetricsMu sync.Mutex
)

// Prometheus creates a Prometheus observer.
//
// Example:
//
//	rt := hybrid.NewRuntime(hybrid.WithObserver(
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	))
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.Registry != prometheus.DefaultRegisterer {
		return newMetrics(config)
	}

	defaultMetricsMu.Lock()
	defer defaultMetricsMu.Unlock()
	if defaultMetrics == nil {
		defaultMetrics = newMetrics(config)
	}
	return defaultMetrics
}

func newMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of invalidation batches flushed",
			ConstLabels: config.ConstLabels,
		}),

		invalidationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "invalidations_total",
			Help:        "Total number of invalidated properties flushed",
			ConstLabels: config.ConstLabels,
		}),

		flushErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_errors_total",
			Help:        "Total number of computed properties that failed to recompute during a flush",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_invalidations",
			Help:        "Number of invalidated properties in the batch being flushed",
			ConstLabels: config.ConstLabels,
		}),

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of parent resolutions by tag and result",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "result"}),
	}
}

// FlushStarted implements hybrid.Observer.
func (m *Metrics) FlushStarted(size int) func(failed int) {
	start := time.Now()
	m.pending.Set(float64(size))

	return func(failed int) {
		m.flushDuration.Observe(time.Since(start).Seconds())
		m.flushesTotal.Inc()
		m.invalidationsTotal.Add(float64(size))
		m.flushErrors.Add(float64(failed))
		m.pending.Set(0)
	}
}

// Resolved implements hybrid.Observer.
func (m *Metrics) Resolved(tag string, found bool) {
	result := "found"
	if !found {
		result = "miss"
	}
	m.resolutions.WithLabelValues(tag, result).Inc()
}
