package crash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreshold_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 10000; i++ {
		threshold := Threshold(rng)
		assert.GreaterOrEqual(t, threshold, 1.0)
		assert.Less(t, threshold, 5.0)
	}
}

func TestThreshold_InstantCrashRate(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	const n = 100000
	instant := 0
	for i := 0; i < n; i++ {
		if Threshold(rng) == 1.0 {
			instant++
		}
	}

	// Expect about 3%
	assert.InDelta(t, 0.03*n, float64(instant), 0.005*n)
}

func TestPayout_Floors(t *testing.T) {
	tests := []struct {
		wager      int64
		multiplier float64
		expected   int64
	}{
		{10, 1.5, 15},
		{10, 1.0, 10},
		{100, 2.37, 237},
		{7, 1.55, 10}, // 10.85 floors to 10
		{1, 1.99, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Payout(tt.wager, tt.multiplier),
			"wager %d at %.2fx", tt.wager, tt.multiplier)
	}
}
