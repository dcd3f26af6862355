package yahoo

import (
	"encoding/json"
	"errors"
	"time"

	"quoteservice/internal/provider"
)

var (
	ErrMalformedPayload  = errors.New("yahoo: malformed payload")
	ErrNoMetadata        = errors.New("yahoo: chart metadata missing")
	ErrInvalidPrice      = errors.New("yahoo: price missing or not positive")
	ErrZeroPreviousClose = errors.New("yahoo: previous close missing or zero")
)

// chartResponse is the subset of the v8 chart API we read. Every level is
// optional; the schema is not contractually stable.
type chartResponse struct {
	Chart *struct {
		Result []struct {
			Meta *meta `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

type meta struct {
	Symbol               string   `json:"symbol"`
	Currency             string   `json:"currency"`
	MarketState          string   `json:"marketState"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	PreviousClose        *float64 `json:"previousClose"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *float64 `json:"regularMarketVolume"`
}

// Normalize turns a chart API payload into a Quote stamped with now.
// Missing or zero numeric fields fall through to their defaults.
func Normalize(body []byte, now time.Time) (provider.Quote, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return provider.Quote{}, errors.Join(ErrMalformedPayload, err)
	}
	if resp.Chart == nil || len(resp.Chart.Result) == 0 || resp.Chart.Result[0].Meta == nil {
		return provider.Quote{}, ErrNoMetadata
	}
	m := resp.Chart.Result[0].Meta

	price := provider.Round2(first(m.RegularMarketPrice, m.PreviousClose))
	if price <= 0 {
		return provider.Quote{}, ErrInvalidPrice
	}
	previousClose := provider.Round2(first(m.PreviousClose, m.ChartPreviousClose))
	if previousClose == 0 {
		return provider.Quote{}, ErrZeroPreviousClose
	}
	change, changePercent := provider.Derive(price, previousClose)

	var volume int64
	if v := first(m.RegularMarketVolume); v > 0 {
		volume = int64(v)
	}

	return provider.Quote{
		Price:         price,
		PreviousClose: previousClose,
		Change:        change,
		ChangePercent: changePercent,
		DayHigh:       provider.Round2(orDefault(first(m.RegularMarketDayHigh), price)),
		DayLow:        provider.Round2(orDefault(first(m.RegularMarketDayLow), price)),
		Volume:        volume,
		MarketState:   orDefaultString(m.MarketState, provider.MarketStateUnknown),
		Currency:      orDefaultString(m.Currency, provider.DefaultCurrency),
		Symbol:        m.Symbol,
		Timestamp:     now.UTC(),
	}, nil
}

// first returns the first non-nil, non-zero value.
func first(vs ...*float64) float64 {
	for _, v := range vs {
		if v != nil && *v != 0 {
			return *v
		}
	}
	return 0
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
