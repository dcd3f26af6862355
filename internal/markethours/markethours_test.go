package markethours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOpen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		// 2025-01-04 is a Saturday, 2025-01-08 a Wednesday.
		{"saturday noon", time.Date(2025, 1, 4, 12, 0, 0, 0, IST), false},
		{"sunday noon", time.Date(2025, 1, 5, 12, 0, 0, 0, IST), false},
		{"wednesday 10:00", time.Date(2025, 1, 8, 10, 0, 0, 0, IST), true},
		{"wednesday 16:00", time.Date(2025, 1, 8, 16, 0, 0, 0, IST), false},
		{"open bell", time.Date(2025, 1, 8, 9, 15, 0, 0, IST), true},
		{"before open", time.Date(2025, 1, 8, 9, 14, 59, 0, IST), false},
		{"close bell", time.Date(2025, 1, 8, 15, 30, 59, 0, IST), true},
		{"after close", time.Date(2025, 1, 8, 15, 31, 0, 0, IST), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsOpen(tc.at), tc.name)
	}
}

func TestIsOpen_ConvertsFromUTC(t *testing.T) {
	t.Parallel()

	// 04:30 UTC on a Wednesday is 10:00 IST.
	assert.True(t, IsOpen(time.Date(2025, 1, 8, 4, 30, 0, 0, time.UTC)))
	// 18:45 UTC Friday is 00:15 Saturday IST.
	assert.False(t, IsOpen(time.Date(2025, 1, 10, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, "CLOSED", State(time.Date(2025, 1, 10, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, "REGULAR", State(time.Date(2025, 1, 8, 4, 30, 0, 0, time.UTC)))
}
