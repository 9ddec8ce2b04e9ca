// Package roulette implements the wheel math for the roulette command.
package roulette

import (
	"math/rand"
	"strconv"
	"strings"
)

// Color is a pocket color.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
)

const (
	// FrameCount is how many visual spin frames a spin produces.
	FrameCount = 10
	// FrameWidth is how many pockets each frame shows.
	FrameWidth = 5
	// resultIndex picks the deciding pocket out of the final frame; the
	// surrounding pockets are suspense.
	resultIndex = 2
)

// Bet is a single wager on a color or a number 1-36.
type Bet struct {
	Amount   int64
	Selector string
}

// Frame is one animation step of the spinning wheel.
type Frame [FrameWidth]Color

// Spin shuffles the wheel and rolls the animation frames. The result is
// the deciding pocket of the last frame.
func Spin(rng *rand.Rand) (frames []Frame, result Color) {
	wheel := newWheel()
	rng.Shuffle(len(wheel), func(i, j int) {
		wheel[i], wheel[j] = wheel[j], wheel[i]
	})

	frames = make([]Frame, FrameCount)
	for i := range frames {
		for j := 0; j < FrameWidth; j++ {
			frames[i][j] = wheel[rng.Intn(len(wheel))]
		}
	}
	return frames, frames[FrameCount-1][resultIndex]
}

// newWheel builds the 37-pocket wheel: one green plus 18 red/black pairs.
func newWheel() []Color {
	wheel := make([]Color, 0, 37)
	wheel = append(wheel, Green)
	for i := 0; i < 18; i++ {
		wheel = append(wheel, Red, Black)
	}
	return wheel
}

// ValidSelector reports whether s names a color or a number 1-36.
func ValidSelector(s string) bool {
	switch Color(strings.ToLower(s)) {
	case Red, Black, Green:
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 36
}

// Payout returns the winnings for one bet against the spin result.
// Numeric bets pay on color parity (even numbers ride on red, odd on
// black) rather than true pocket mapping; this mirrors the table this
// bot has always used.
func Payout(bet Bet, result Color) int64 {
	selector := strings.ToLower(bet.Selector)
	switch {
	case selector == string(Red) && result == Red:
		return bet.Amount * 2
	case selector == string(Black) && result == Black:
		return bet.Amount * 2
	case selector == string(Green) && result == Green:
		return bet.Amount * 36
	}

	n, err := strconv.Atoi(selector)
	if err != nil || n < 1 || n > 36 || result == Green {
		return 0
	}
	if (n%2 == 0 && result == Red) || (n%2 == 1 && result == Black) {
		return bet.Amount * 36
	}
	return 0
}
