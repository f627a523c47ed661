package renderstate

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/renderstate/pkg/metrics"
	"github.com/vango-dev/renderstate/pkg/store"
)

type config struct {
	key      string
	provider store.Provider
	id       string

	initialData    any
	hasInitialData bool
	initialError   error

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

// Option configures an Adapter.
type Option func(*config)

// WithKey binds the adapter to a shared key. Adapters without a key keep
// their state private.
func WithKey(key string) Option {
	return func(c *config) {
		c.key = key
	}
}

// WithStore sets the store a shared adapter reads and writes.
func WithStore(s *store.Store) Option {
	return func(c *config) {
		c.provider = store.Static(s)
	}
}

// WithProvider sets how the adapter locates its store.
func WithProvider(p store.Provider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithContext locates the store through store.FromContext(ctx).
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.provider = store.ContextProvider(ctx)
	}
}

// WithInitialData sets the initial data. An adapter with initial data starts
// in Success. The value must have the adapter's data type.
func WithInitialData[T any](data T) Option {
	return func(c *config) {
		c.initialData = data
		c.hasInitialData = true
	}
}

// WithInitialError sets the initial error. Without initial data, an adapter
// with an initial error starts in Error.
func WithInitialError(err error) Option {
	return func(c *config) {
		c.initialError = err
	}
}

// WithID overrides the generated instance id used to tag writes.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// WithLogger sets the logger for diagnostics. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets the tracer used for HandleData spans.
// Default: otel.Tracer("github.com/vango-dev/renderstate").
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithMetrics reports transitions and producer runs to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}
