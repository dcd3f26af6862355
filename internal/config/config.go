package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Port string `json:"port" yaml:"port"`
}

type Endpoint struct {
	Name    string            `json:"name" yaml:"name"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

type Upstream struct {
	// Endpoints are tried in order; URL must contain {symbol}.
	Endpoints             []Endpoint        `json:"endpoints" yaml:"endpoints"`
	Headers               map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	TimeoutSec            int               `json:"timeout_sec" yaml:"timeout_sec"`
	MaxRequestsPerMinute  int               `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	MinRequestIntervalSec int               `json:"min_request_interval_sec" yaml:"min_request_interval_sec"`
	Burst                 int               `json:"burst" yaml:"burst"`
}

type Cache struct {
	TTLSeconds int `json:"ttl_sec" yaml:"ttl_sec"`
	// ReportCron logs cache size on this schedule; empty disables it.
	ReportCron string `json:"report_cron" yaml:"report_cron"`
}

type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type Config struct {
	Server   Server   `json:"server" yaml:"server"`
	Upstream Upstream `json:"upstream" yaml:"upstream"`
	Cache    Cache    `json:"cache" yaml:"cache"`
	Log      Log      `json:"log" yaml:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080"},
		Upstream: Upstream{
			Endpoints: []Endpoint{
				{Name: "query1", URL: "https://query1.finance.yahoo.com/v8/finance/chart/{symbol}"},
				{Name: "query2", URL: "https://query2.finance.yahoo.com/v8/finance/chart/{symbol}"},
				{Name: "web", URL: "https://finance.yahoo.com/chart/{symbol}"},
			},
			TimeoutSec: 8,
			Burst:      1,
		},
		Cache: Cache{TTLSeconds: 30, ReportCron: "@every 1m"},
		Log:   Log{Level: "info"},
	}
}

// Load reads a JSON or YAML (by extension) config from path. If path is
// empty it looks for config.json, config.yaml and config.yml in the working
// directory; a missing file yields defaults. Environment variables override
// select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, p := range []string{"config.json", "config.yaml", "config.yml"} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := unmarshal(path, b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func unmarshal(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

// Validate checks the fields the server cannot run without.
func (c Config) Validate() error {
	if len(c.Upstream.Endpoints) == 0 {
		return errors.New("upstream.endpoints must not be empty")
	}
	for i, ep := range c.Upstream.Endpoints {
		if !strings.Contains(ep.URL, "{symbol}") {
			return fmt.Errorf("upstream.endpoints[%d].url must contain {symbol}", i)
		}
	}
	if c.Upstream.TimeoutSec <= 0 {
		return errors.New("upstream.timeout_sec must be positive")
	}
	if c.Cache.TTLSeconds <= 0 {
		return errors.New("cache.ttl_sec must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if x, ok := envInt("QUOTE_CACHE_TTL_SEC"); ok && x > 0 {
		cfg.Cache.TTLSeconds = x
	}
	if v, ok := os.LookupEnv("CACHE_REPORT_CRON"); ok {
		cfg.Cache.ReportCron = v
	}
	if x, ok := envInt("UPSTREAM_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Upstream.TimeoutSec = x
	}
	if v := os.Getenv("UPSTREAM_ENDPOINTS"); v != "" {
		urls := splitCSV(v)
		eps := make([]Endpoint, 0, len(urls))
		for i, u := range urls {
			eps = append(eps, Endpoint{Name: fmt.Sprintf("env%d", i+1), URL: u})
		}
		cfg.Upstream.Endpoints = eps
	}
	if x, ok := envInt("UPSTREAM_MAX_RPM"); ok && x >= 0 {
		cfg.Upstream.MaxRequestsPerMinute = x
	}
	if x, ok := envInt("UPSTREAM_MIN_INTERVAL_SEC"); ok && x >= 0 {
		cfg.Upstream.MinRequestIntervalSec = x
	}
	if x, ok := envInt("UPSTREAM_BURST"); ok && x > 0 {
		cfg.Upstream.Burst = x
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return 0, false
	}
	return x, true
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
