package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "renderstate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for producer duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "renderstate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors shared by stores and adapters.
type Metrics struct {
	writesTotal        *prometheus.CounterVec
	notificationsTotal prometheus.Counter
	removalsTotal      prometheus.Counter
	resetsTotal        prometheus.Counter
	records            prometheus.Gauge
	listeners          prometheus.Gauge

	transitionsTotal *prometheus.CounterVec
	reconciledTotal  prometheus.Counter
	producerDuration prometheus.Histogram
	producerErrors   prometheus.Counter
	diagnosticsTotal *prometheus.CounterVec
}

// New creates and registers the collectors.
// Registering twice against the same registry panics, as with promauto.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		writesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_writes_total",
			Help:        "Total number of store writes by mode",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "silent"}),

		notificationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_notifications_total",
			Help:        "Total number of change notifications broadcast by stores",
			ConstLabels: config.ConstLabels,
		}),

		removalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_removals_total",
			Help:        "Total number of records removed",
			ConstLabels: config.ConstLabels,
		}),

		resetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_resets_total",
			Help:        "Total number of full store resets",
			ConstLabels: config.ConstLabels,
		}),

		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_records",
			Help:        "Number of records held by the most recently written store",
			ConstLabels: config.ConstLabels,
		}),

		listeners: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "store_listeners",
			Help:        "Number of registered store listeners",
			ConstLabels: config.ConstLabels,
		}),

		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "adapter_transitions_total",
			Help:        "Total number of adapter state transitions by target status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		reconciledTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "adapter_reconciled_total",
			Help:        "Total number of shared records adopted from other adapters",
			ConstLabels: config.ConstLabels,
		}),

		producerDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "producer_duration_seconds",
			Help:        "Producer run time in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		producerErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "producer_errors_total",
			Help:        "Total number of failed producer runs",
			ConstLabels: config.ConstLabels,
		}),

		diagnosticsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diagnostics_total",
			Help:        "Total number of inconsistent-state diagnostics by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

// =============================================================================
// Store recording
// =============================================================================

// RecordWrite records a store write.
func (m *Metrics) RecordWrite(merge, silent bool, records int) {
	if m == nil {
		return
	}
	mode := "merge"
	if !merge {
		mode = "replace"
	}
	s := "false"
	if silent {
		s = "true"
	}
	m.writesTotal.WithLabelValues(mode, s).Inc()
	m.records.Set(float64(records))
}

// RecordNotify records one broadcast to listeners.
func (m *Metrics) RecordNotify() {
	if m == nil {
		return
	}
	m.notificationsTotal.Inc()
}

// RecordRemove records a record removal.
func (m *Metrics) RecordRemove(records int) {
	if m == nil {
		return
	}
	m.removalsTotal.Inc()
	m.records.Set(float64(records))
}

// RecordReset records a full store reset.
func (m *Metrics) RecordReset() {
	if m == nil {
		return
	}
	m.resetsTotal.Inc()
	m.records.Set(0)
}

// ListenerAdded records a new subscription.
func (m *Metrics) ListenerAdded() {
	if m == nil {
		return
	}
	m.listeners.Inc()
}

// ListenerRemoved records an unsubscription.
func (m *Metrics) ListenerRemoved() {
	if m == nil {
		return
	}
	m.listeners.Dec()
}

// =============================================================================
// Adapter recording
// =============================================================================

// RecordTransition records an adapter moving to status.
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status).Inc()
}

// RecordReconcile records an adapter adopting another adapter's write.
func (m *Metrics) RecordReconcile() {
	if m == nil {
		return
	}
	m.reconciledTotal.Inc()
}

// ObserveProducer records one producer run.
func (m *Metrics) ObserveProducer(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.producerDuration.Observe(d.Seconds())
	if err != nil {
		m.producerErrors.Inc()
	}
}

// RecordDiagnostic records an inconsistent-state diagnostic.
func (m *Metrics) RecordDiagnostic(code string) {
	if m == nil {
		return
	}
	m.diagnosticsTotal.WithLabelValues(code).Inc()
}
