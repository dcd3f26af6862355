// Package markethours approximates the NSE trading calendar.
package markethours

import (
	"time"

	"quoteservice/internal/provider"
)

// IST is the fixed exchange offset, UTC+05:30.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const (
	openMinute  = 9*60 + 15
	closeMinute = 15*60 + 30
)

// IsOpen reports whether now falls inside the 09:15-15:30 IST session on a
// weekday. Exchange holidays are not considered.
func IsOpen(now time.Time) bool {
	local := now.In(IST)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	m := local.Hour()*60 + local.Minute()
	return m >= openMinute && m <= closeMinute
}

// State maps IsOpen onto the REGULAR/CLOSED market states.
func State(now time.Time) string {
	if IsOpen(now) {
		return provider.MarketStateRegular
	}
	return provider.MarketStateClosed
}
