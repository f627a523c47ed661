package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/renderstate/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultHost, cfg.Devtools.Host)
	assert.Equal(t, DefaultPort, cfg.Devtools.Port)
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, DefaultTracerName, cfg.Tracing.TracerName)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.MetricsEnabled())
	assert.Equal(t, "localhost:7331", cfg.Addr())
	assert.Equal(t, "http://localhost:7331", cfg.URL())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromDir(dir)
	require.Error(t, err)
	assert.Equal(t, "R040", errors.Code(err))

	content := `
devtools:
  host: 0.0.0.0
  port: 9000
  allowedOrigins:
    - http://localhost:3000
metrics:
  enabled: false
  subsystem: demo
logging:
  level: debug
  format: json
`
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Devtools.AllowedOrigins)
	assert.False(t, cfg.MetricsEnabled())
	assert.Equal(t, "demo", cfg.Metrics.Subsystem)
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, New().Addr(), cfg.Addr())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("devtools:\n  prot: 80\n"))
	require.Error(t, err)
	assert.Equal(t, "R030", errors.Code(err))
	assert.Contains(t, err.Error(), "prot")
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("devtools: [unterminated"))
	require.Error(t, err)
	assert.Equal(t, "R030", errors.Code(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		detail  string
	}{
		{"port out of range", "devtools:\n  port: 70000\n", "devtools.port"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Equal(t, "R031", errors.Code(err))

			var rsErr *errors.RenderStateError
			require.ErrorAs(t, err, &rsErr)
			assert.Contains(t, rsErr.Detail, tt.detail)
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	var buf bytes.Buffer

	logger := cfg.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "key", "k")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "key=k")

	buf.Reset()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "JSON"
	cfg.NewLogger(&buf).Debug("visible")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "expected JSON output, got %q", buf.String())
	assert.Contains(t, buf.String(), `"msg":"visible"`)
}
