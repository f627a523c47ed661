package config

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/renderstate/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "renderstate.yaml"

	// DefaultPort is the default devtools server port.
	DefaultPort = 7331

	// DefaultHost is the default devtools server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "renderstate"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "renderstate"
)

// Config represents the complete renderstate.yaml configuration.
type Config struct {
	// Devtools contains inspector server configuration.
	Devtools Devtools `yaml:"devtools"`

	// Metrics contains Prometheus collector configuration.
	Metrics Metrics `yaml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing Tracing `yaml:"tracing"`

	// Logging contains log output configuration.
	Logging Logging `yaml:"logging"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// Devtools contains inspector server settings.
type Devtools struct {
	// Host is the host to bind to.
	Host string `yaml:"host"`

	// Port is the port to listen on.
	Port int `yaml:"port"`

	// AllowedOrigins lists the origins allowed to open the change stream.
	// Empty means same-origin only; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Metrics contains Prometheus settings.
type Metrics struct {
	// Enabled controls whether collectors are registered and /metrics is served.
	Enabled *bool `yaml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metrics subsystem.
	Subsystem string `yaml:"subsystem"`
}

// Tracing contains OpenTelemetry settings.
type Tracing struct {
	// TracerName is the name passed to otel.Tracer.
	TracerName string `yaml:"tracerName"`
}

// Logging contains log output settings.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadFromDir reads renderstate.yaml from dir.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

// Load reads configuration from the specified file path.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R040").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create the file or run without --config to use defaults")
		}
		return nil, errors.New("R040").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes configuration from YAML, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.New("R030").
			WithSuggestion("Check " + ConfigFileName + " for typos in key names").
			Wrap(err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Devtools.Host == "" {
		c.Devtools.Host = DefaultHost
	}
	if c.Devtools.Port == 0 {
		c.Devtools.Port = DefaultPort
	}
	if c.Metrics.Enabled == nil {
		enabled := true
		c.Metrics.Enabled = &enabled
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Devtools.Port < 0 || c.Devtools.Port > 65535 {
		return errors.New("R031").
			WithDetail("devtools.port must be between 0 and 65535, got " + strconv.Itoa(c.Devtools.Port))
	}
	if _, ok := parseLevel(c.Logging.Level); !ok {
		return errors.New("R031").
			WithDetail("logging.level must be one of debug, info, warn, error, got " + strconv.Quote(c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.New("R031").
			WithDetail("logging.format must be text or json, got " + strconv.Quote(c.Logging.Format))
	}
	return nil
}

// MetricsEnabled reports whether metrics are enabled.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Addr returns the listen address for the devtools server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Devtools.Host, strconv.Itoa(c.Devtools.Port))
}

// URL returns the base URL of the devtools server.
func (c *Config) URL() string {
	return "http://" + c.Addr()
}

// NewLogger builds a logger writing to w with the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Logging.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(c.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
