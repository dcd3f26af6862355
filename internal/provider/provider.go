package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Market states reported when the upstream does not supply one.
const (
	MarketStateUnknown = "UNKNOWN"
	MarketStateRegular = "REGULAR"
	MarketStateClosed  = "CLOSED"

	DefaultCurrency = "INR"
)

// Quote is the normalized shape returned by all providers.
// Price fields are already rounded to 2 decimal places.
type Quote struct {
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	Volume        int64     `json:"volume"`
	MarketState   string    `json:"marketState"`
	Currency      string    `json:"currency"`
	Symbol        string    `json:"symbol"`
	Timestamp     time.Time `json:"timestamp"`
	IsDemo        bool      `json:"isDemo,omitempty"`
	FromCache     bool      `json:"fromCache,omitempty"`
}

// Provider returns a quote for a single symbol.
//
//go:generate mockgen -package=service_test -destination=../service/mock_provider_test.go -source=provider.go Provider
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (Quote, error)
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Derive returns change and changePercent for already rounded price and
// previousClose. previousClose must be non-zero.
func Derive(price, previousClose float64) (change, changePercent float64) {
	p := decimal.NewFromFloat(price)
	pc := decimal.NewFromFloat(previousClose)
	diff := p.Sub(pc)
	change, _ = diff.Round(2).Float64()
	changePercent, _ = diff.Div(pc).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return change, changePercent
}
