package yahoo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"quoteservice/internal/httpx"
	"quoteservice/internal/provider"
)

// SymbolPlaceholder is replaced by the path-escaped symbol in endpoint URLs.
const SymbolPlaceholder = "{symbol}"

// DefaultTimeout bounds each endpoint attempt.
const DefaultTimeout = 8 * time.Second

// ErrNoLiveQuote means every endpoint failed. It is the signal for callers
// to fall back to synthetic data.
var ErrNoLiveQuote = errors.New("yahoo: no endpoint produced a quote")

// Endpoint is one mirror of the chart API.
type Endpoint struct {
	Name    string
	URL     string // must contain SymbolPlaceholder
	Headers map[string]string
}

// DefaultEndpoints are tried in order.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "query1", URL: "https://query1.finance.yahoo.com/v8/finance/chart/" + SymbolPlaceholder},
		{Name: "query2", URL: "https://query2.finance.yahoo.com/v8/finance/chart/" + SymbolPlaceholder},
		{Name: "web", URL: "https://finance.yahoo.com/chart/" + SymbolPlaceholder},
	}
}

type Config struct {
	Name      string
	Endpoints []Endpoint
	// Headers are sent to every endpoint; Endpoint.Headers win on conflict.
	Headers map[string]string
	Timeout time.Duration
}

type Provider struct {
	cfg    Config
	client *httpx.Client
	log    *logrus.Entry
	now    func() time.Time
}

func New(cfg Config, hc *httpx.Client, log *logrus.Entry) *Provider {
	if cfg.Name == "" {
		cfg.Name = "yahoo"
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultEndpoints()
	}
	if cfg.Headers == nil {
		cfg.Headers = maps.Clone(httpx.BrowserHeaders)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if hc == nil {
		hc = httpx.New(cfg.Timeout)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Provider{cfg: cfg, client: hc, log: log.WithField("provider", cfg.Name), now: time.Now}
}

func (p *Provider) Name() string { return p.cfg.Name }

// Fetch tries each endpoint once, in order, and returns the first quote
// that normalizes cleanly.
func (p *Provider) Fetch(ctx context.Context, symbol string) (provider.Quote, error) {
	var errs []error
	for _, ep := range p.cfg.Endpoints {
		q, err := p.fetchEndpoint(ctx, ep, symbol)
		if err != nil {
			p.log.WithFields(logrus.Fields{"symbol": symbol, "endpoint": ep.Name}).WithError(err).Warn("endpoint failed")
			errs = append(errs, fmt.Errorf("%s: %w", ep.Name, err))
			continue
		}
		p.log.WithFields(logrus.Fields{"symbol": symbol, "endpoint": ep.Name}).Debug("live quote")
		return q, nil
	}
	return provider.Quote{}, errors.Join(append([]error{ErrNoLiveQuote}, errs...)...)
}

func (p *Provider) fetchEndpoint(ctx context.Context, ep Endpoint, symbol string) (provider.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	headers := make(map[string]string, len(p.cfg.Headers)+len(ep.Headers))
	for k, v := range p.cfg.Headers {
		headers[k] = v
	}
	for k, v := range ep.Headers {
		headers[k] = v
	}

	body, err := p.client.Get(ctx, EndpointURL(ep, symbol), headers)
	if err != nil {
		return provider.Quote{}, err
	}
	q, err := Normalize(body, p.now())
	if err != nil {
		return provider.Quote{}, err
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	return q, nil
}

// EndpointURL interpolates symbol into the endpoint template.
func EndpointURL(ep Endpoint, symbol string) string {
	return strings.ReplaceAll(ep.URL, SymbolPlaceholder, url.PathEscape(symbol))
}
