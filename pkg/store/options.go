package store

import (
	"log/slog"

	"github.com/vango-dev/renderstate/pkg/metrics"
)

type config struct {
	name    string
	logger  *slog.Logger
	metrics *metrics.Metrics
	initial map[string]Record
}

func defaultConfig() config {
	return config{name: "default"}
}

// Option configures a Store.
type Option func(*config)

// WithName sets the store name used in logs.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics reports writes and notifications to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithInitialRecords seeds the store with records. The map is copied.
func WithInitialRecords(records map[string]Record) Option {
	return func(c *config) {
		c.initial = make(map[string]Record, len(records))
		for k, v := range records {
			c.initial[k] = v
		}
	}
}

type setConfig struct {
	merge  bool
	silent bool
}

// SetOption configures a single Set call.
type SetOption func(*setConfig)

// Replace makes Set replace the whole record instead of merging into it.
// Fields not selected by the patch are reset to their zero value.
func Replace() SetOption {
	return func(c *setConfig) {
		c.merge = false
	}
}

// Silent makes Set update the record without notifying listeners.
func Silent() SetOption {
	return func(c *setConfig) {
		c.silent = true
	}
}
