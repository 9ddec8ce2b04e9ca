// Package crash implements the multiplier math for the shared crash game.
package crash

import "math/rand"

const (
	// Step is how much the multiplier climbs per tick.
	Step = 0.05
	// instantCrashChance is the probability the round busts at 1.00x.
	instantCrashChance = 0.03
	// thresholdMax bounds the uniform threshold draw.
	thresholdMax = 5.0
)

// Threshold draws the multiplier at which the round will crash: exactly
// 1.0 with a small probability, otherwise uniform in [1.0, 5.0).
func Threshold(rng *rand.Rand) float64 {
	if rng.Float64() < instantCrashChance {
		return 1.0
	}
	return 1.0 + rng.Float64()*(thresholdMax-1.0)
}

// Payout is what a cash-out at the given multiplier returns on a wager.
func Payout(wager int64, multiplier float64) int64 {
	return int64(float64(wager) * multiplier)
}
