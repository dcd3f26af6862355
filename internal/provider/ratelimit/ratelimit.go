// Package ratelimit throttles calls to an upstream provider within a single
// process. There is no coordination across instances.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quoteservice/internal/provider"
)

// ErrRateLimited is returned when no call slot opens before the wait
// deadline. Nothing is consumed in that case.
var ErrRateLimited = errors.New("rate limited")

// Limiter blocks until a call may proceed. It returns ErrRateLimited up
// front when the required delay would outlast ctx's deadline.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Config selects a limiter. MaxPerMinute takes precedence over MinInterval;
// both zero disables limiting. MaxWait bounds how long a call may wait for
// a slot; zero fails fast.
type Config struct {
	MaxPerMinute int
	Burst        int
	MinInterval  time.Duration
	MaxWait      time.Duration
}

// Wrap returns p gated by the limiter cfg describes, or p itself when
// limiting is disabled.
func Wrap(p provider.Provider, cfg Config) provider.Provider {
	switch {
	case cfg.MaxPerMinute > 0:
		return &Provider{P: p, L: NewTokenBucket(float64(cfg.MaxPerMinute)/60, cfg.Burst), MaxWait: cfg.MaxWait}
	case cfg.MinInterval > 0:
		return &Provider{P: p, L: &MinInterval{Interval: cfg.MinInterval}, MaxWait: cfg.MaxWait}
	default:
		return p
	}
}

// Provider gates Fetch calls with a Limiter. The wait for a slot never
// exceeds MaxWait, whatever deadline ctx carries.
type Provider struct {
	P       provider.Provider
	L       Limiter
	MaxWait time.Duration
}

func (p *Provider) Name() string { return p.P.Name() }

func (p *Provider) Fetch(ctx context.Context, symbol string) (provider.Quote, error) {
	if p.L != nil {
		wctx, cancel := context.WithTimeout(ctx, max(p.MaxWait, 0))
		err := p.L.Wait(wctx)
		cancel()
		if err != nil {
			return provider.Quote{}, fmt.Errorf("%s: %w", p.P.Name(), err)
		}
	}
	return p.P.Fetch(ctx, symbol)
}

// MinInterval spaces calls at least Interval apart. The slot is reserved
// before sleeping so concurrent callers queue behind each other; a caller
// that cannot be served before its deadline reserves nothing.
type MinInterval struct {
	Interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func (m *MinInterval) Wait(ctx context.Context) error {
	m.mu.Lock()
	now := time.Now()
	at := m.next
	if at.Before(now) {
		at = now
	}
	if late(ctx, now, at.Sub(now)) {
		m.mu.Unlock()
		return ErrRateLimited
	}
	m.next = at.Add(m.Interval)
	m.mu.Unlock()
	return sleep(ctx, time.Until(at))
}

// TokenBucket refills rate tokens per second up to burst.
type TokenBucket struct {
	rate     float64
	capacity float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

func NewTokenBucket(tokensPerSecond float64, burst int) *TokenBucket {
	if tokensPerSecond <= 0 {
		tokensPerSecond = 1e-7
	}
	if burst <= 0 {
		burst = 1
	}
	// start full so the first burst is not delayed
	return &TokenBucket{rate: tokensPerSecond, capacity: float64(burst), tokens: float64(burst), last: time.Now()}
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		now := time.Now()
		d := tb.take(now)
		if d == 0 {
			return nil
		}
		if late(ctx, now, d) {
			return ErrRateLimited
		}
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
}

// take consumes a token and returns 0, or returns how long until one is
// available.
func (tb *TokenBucket) take(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.rate)
		tb.last = now
	}
	if tb.tokens >= 1 {
		tb.tokens--
		return 0
	}
	d := time.Duration((1 - tb.tokens) / tb.rate * float64(time.Second))
	return max(d, time.Millisecond)
}

// late reports whether waiting d from now would run past ctx's deadline.
func late(ctx context.Context, now time.Time, d time.Duration) bool {
	if d <= 0 {
		return false
	}
	dl, ok := ctx.Deadline()
	return ok && now.Add(d).After(dl)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
