// Package demo fabricates plausible quotes for when no live data is
// available.
package demo

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"quoteservice/internal/markethours"
	"quoteservice/internal/provider"
)

// DefaultBasePrice is used when no fragment in the table matches.
const DefaultBasePrice = 1000.0

const maxVolume = 10_000_000

type basePrice struct {
	fragment string
	price    float64
}

// Checked in order; the first matching fragment wins.
var basePrices = []basePrice{
	{"NSEI", 25000},
	{"BSESN", 82000},
	{"BANK", 52000},
	{"RELIANCE", 2800},
	{"TCS", 4200},
	{"HDFC", 1800},
}

// BasePrice returns the approximate real-world magnitude for symbol.
func BasePrice(symbol string) float64 {
	s := strings.ToUpper(symbol)
	for _, b := range basePrices {
		if strings.Contains(s, b.fragment) {
			return b.price
		}
	}
	return DefaultBasePrice
}

// Generator builds synthetic quotes. The zero value is not usable; use New.
type Generator struct {
	Now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator using src for randomness. A nil src seeds from
// the runtime.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{Now: time.Now, rnd: rand.New(src)}
}

// Synthesize never fails. price is base perturbed by up to ±1%,
// previousClose is the unperturbed base.
func (g *Generator) Synthesize(symbol string) provider.Quote {
	now := g.Now()
	base := BasePrice(symbol)

	g.mu.Lock()
	variation := (g.rnd.Float64() - 0.5) * 0.02
	volume := g.rnd.Int64N(maxVolume)
	g.mu.Unlock()

	price := provider.Round2(base * (1 + variation))
	previousClose := provider.Round2(base)
	change, changePercent := provider.Derive(price, previousClose)

	return provider.Quote{
		Price:         price,
		PreviousClose: previousClose,
		Change:        change,
		ChangePercent: changePercent,
		DayHigh:       provider.Round2(price * 1.01),
		DayLow:        provider.Round2(price * 0.99),
		Volume:        volume,
		MarketState:   markethours.State(now),
		Currency:      provider.DefaultCurrency,
		Symbol:        symbol,
		Timestamp:     now.UTC(),
		IsDemo:        true,
	}
}
