package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
upstream:
  base_url: http://aggregator:8000
  poll_interval_seconds: 30
server:
  addr: ":9000"
metrics:
  prometheus_enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://aggregator:8000", cfg.Upstream.BaseURL)
	assert.Equal(t, 30, cfg.Upstream.PollIntervalSeconds)
	assert.Equal(t, 10, cfg.Upstream.TimeoutSeconds, "default applies")
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "schematic", cfg.Overlay.Projection)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	assert.False(t, cfg.Announce.Enabled)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "upstream": {"base_url": "http://localhost:8000"},
  "overlay": {"projection": "geographic"}
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Upstream.BaseURL)
	assert.Equal(t, "geographic", cfg.Overlay.Projection)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
upstream:
  base_url: http://aggregator:8000
`)
	t.Setenv("GL_SERVER__ADDR", ":7070")
	t.Setenv("GL_UPSTREAM__POLL_INTERVAL_SECONDS", "15")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 15, cfg.Upstream.PollIntervalSeconds)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.toml", "upstream = 1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeConfig(t, "config.yaml", "server:\n  addr: \":1\"\n"))
	assert.ErrorContains(t, err, "base_url is required")

	_, err = Load(writeConfig(t, "config.yaml", `
upstream:
  base_url: http://x
overlay:
  projection: mercator
`))
	assert.ErrorContains(t, err, "unknown projection")

	_, err = Load(writeConfig(t, "config.yaml", `
upstream:
  base_url: http://x
announce:
  enabled: true
`))
	assert.ErrorContains(t, err, "broker")
}
