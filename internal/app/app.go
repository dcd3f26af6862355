// Package app wires configuration into a ready Quote Service.
package app

import (
	"time"

	"github.com/sirupsen/logrus"
	"quoteservice/internal/config"
	"quoteservice/internal/httpx"
	"quoteservice/internal/provider"
	"quoteservice/internal/provider/cache"
	"quoteservice/internal/provider/demo"
	"quoteservice/internal/provider/ratelimit"
	"quoteservice/internal/provider/yahoo"
	"quoteservice/internal/service"
)

// NewService builds the yahoo provider, optional rate limiting, the cache
// and the demo generator described by cfg.
func NewService(cfg config.Config, log *logrus.Entry) *service.Service {
	timeout := time.Duration(cfg.Upstream.TimeoutSec) * time.Second

	endpoints := make([]yahoo.Endpoint, 0, len(cfg.Upstream.Endpoints))
	for _, ep := range cfg.Upstream.Endpoints {
		endpoints = append(endpoints, yahoo.Endpoint{Name: ep.Name, URL: ep.URL, Headers: ep.Headers})
	}

	headers := make(map[string]string, len(httpx.BrowserHeaders)+len(cfg.Upstream.Headers))
	for k, v := range httpx.BrowserHeaders {
		headers[k] = v
	}
	for k, v := range cfg.Upstream.Headers {
		headers[k] = v
	}

	var live provider.Provider = yahoo.New(yahoo.Config{
		Endpoints: endpoints,
		Headers:   headers,
		Timeout:   timeout,
	}, httpx.New(timeout), log)
	live = ratelimit.Wrap(live, ratelimit.Config{
		MaxPerMinute: cfg.Upstream.MaxRequestsPerMinute,
		Burst:        cfg.Upstream.Burst,
		MinInterval:  time.Duration(cfg.Upstream.MinRequestIntervalSec) * time.Second,
	})

	c := cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	return service.New(live, demo.New(nil), c, log)
}
