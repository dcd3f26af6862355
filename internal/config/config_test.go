package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Upstream.Endpoints, 3)
	require.Equal(t, 8, cfg.Upstream.TimeoutSec)
	require.Equal(t, 30, cfg.Cache.TTLSeconds)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, Default().Server.Port, cfg.Server.Port)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": "9090"},
		"upstream": {"endpoints": [{"name": "mirror", "url": "http://localhost/chart/{symbol}"}], "timeout_sec": 3}
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Len(t, cfg.Upstream.Endpoints, 1)
	require.Equal(t, "mirror", cfg.Upstream.Endpoints[0].Name)
	require.Equal(t, 3, cfg.Upstream.TimeoutSec)
	require.Equal(t, 30, cfg.Cache.TTLSeconds, "unset fields keep defaults")
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cache:
  ttl_sec: 10
  report_cron: ""
upstream:
  headers:
    User-Agent: test-agent
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Cache.TTLSeconds)
	require.Empty(t, cfg.Cache.ReportCron)
	require.Equal(t, "test-agent", cfg.Upstream.Headers["User-Agent"])
	require.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Upstream.Endpoints, 3)
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("QUOTE_CACHE_TTL_SEC", "5")
	t.Setenv("UPSTREAM_TIMEOUT_SEC", "2")
	t.Setenv("UPSTREAM_ENDPOINTS", "http://a/{symbol}, http://b/{symbol}")
	t.Setenv("UPSTREAM_MAX_RPM", "120")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Server.Port)
	require.Equal(t, 5, cfg.Cache.TTLSeconds)
	require.Equal(t, 2, cfg.Upstream.TimeoutSec)
	require.Equal(t, 120, cfg.Upstream.MaxRequestsPerMinute)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, []Endpoint{{Name: "env1", URL: "http://a/{symbol}"}, {Name: "env2", URL: "http://b/{symbol}"}}, cfg.Upstream.Endpoints)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Upstream.Endpoints = nil
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Upstream.Endpoints[1].URL = "https://example.com/chart"
	require.ErrorContains(t, cfg.Validate(), "{symbol}")

	cfg = Default()
	cfg.Cache.TTLSeconds = 0
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Upstream.TimeoutSec = 0
	require.Error(t, cfg.Validate())
}
