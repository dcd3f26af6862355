// Package service serves quotes from cache, the live provider or, failing
// both, synthetic data.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"quoteservice/internal/provider"
	"quoteservice/internal/provider/cache"
	"quoteservice/internal/provider/demo"
)

// ErrEmptySymbol is the only error GetQuote returns.
var ErrEmptySymbol = errors.New("symbol is required")

type Service struct {
	live  provider.Provider
	demo  *demo.Generator
	cache *cache.Cache
	log   *logrus.Entry
}

func New(live provider.Provider, gen *demo.Generator, c *cache.Cache, log *logrus.Entry) *Service {
	if gen == nil {
		gen = demo.New(nil)
	}
	if c == nil {
		c = cache.New(cache.DefaultTTL)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{live: live, demo: gen, cache: c, log: log}
}

// Cache exposes the backing cache for reporting.
func (s *Service) Cache() *cache.Cache { return s.cache }

// GetQuote never surfaces upstream failures: when no live quote can be had
// it returns a demo quote instead. Demo quotes are cached for the same TTL
// as live ones.
func (s *Service) GetQuote(ctx context.Context, symbol string) (q provider.Quote, err error) {
	if symbol == "" {
		return provider.Quote{}, ErrEmptySymbol
	}
	log := s.log.WithField("symbol", symbol)

	defer func() {
		if r := recover(); r != nil {
			log.WithError(fmt.Errorf("panic: %v", r)).Error("quote lookup failed, serving demo data")
			q, err = s.demo.Synthesize(symbol), nil
		}
	}()

	if cached, ok := s.cache.Get(symbol); ok {
		log.Debug("cache hit")
		cached.FromCache = true
		return cached, nil
	}

	if s.live != nil {
		// Finish the upstream call even if the caller goes away so the
		// result still lands in the cache.
		live, ferr := s.live.Fetch(context.WithoutCancel(ctx), symbol)
		if ferr == nil {
			s.cache.Put(symbol, live)
			return live, nil
		}
		log.WithError(ferr).Warn("live data failed, using demo data")
	}

	q = s.demo.Synthesize(symbol)
	s.cache.Put(symbol, q)
	return q, nil
}
