// Package slots implements the weighted slot machine reel math.
package slots

import (
	"math/rand"
)

// Symbol is one reel face.
type Symbol string

const (
	Moneybag   Symbol = "💰"
	Dollar     Symbol = "💵"
	Watermelon Symbol = "🍉"
	Bell       Symbol = "🔔"
	Peach      Symbol = "🍑"
	Apple      Symbol = "🍎"
	Cherry     Symbol = "🍒"
)

// symbols and weights are parallel; cells are drawn independently with
// replacement from this distribution.
var symbols = []Symbol{Moneybag, Dollar, Watermelon, Bell, Peach, Apple, Cherry}

var weights = map[Symbol]int{
	Moneybag:   1,
	Dollar:     3,
	Watermelon: 2,
	Bell:       1,
	Peach:      7,
	Apple:      5,
	Cherry:     2,
}

// tripleMultipliers pays the all-equal middle row. Cherry triples are
// deliberately absent: the all-equal branch wins precedence and pays
// nothing for them.
var tripleMultipliers = map[Symbol]int64{
	Moneybag:   200,
	Dollar:     100,
	Watermelon: 100,
	Bell:       18,
	Peach:      14,
	Apple:      10,
}

// pairDollarMultipliers pays a leading pair completed by 💵 at the
// triple rate for that symbol.
var pairDollarMultipliers = map[Symbol]int64{
	Watermelon: 100,
	Bell:       18,
	Peach:      14,
	Apple:      10,
}

var totalWeight = func() int {
	total := 0
	for _, s := range symbols {
		total += weights[s]
	}
	return total
}()

// Grid is a 3x3 reel result; Grid[1] is the payline.
type Grid [3][3]Symbol

// Draw returns one weighted symbol.
func Draw(rng *rand.Rand) Symbol {
	n := rng.Intn(totalWeight)
	for _, s := range symbols {
		n -= weights[s]
		if n < 0 {
			return s
		}
	}
	// Unreachable while weights stay positive
	return symbols[len(symbols)-1]
}

// Spin draws a full grid.
func Spin(rng *rand.Rand) Grid {
	var g Grid
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			g[row][col] = Draw(rng)
		}
	}
	return g
}

// Payout returns the winnings for a wager given the middle row. The
// branches are checked in strict precedence order; later branches never
// see rows matched by earlier ones.
func Payout(row [3]Symbol, wager int64) int64 {
	pairDollar, isPairDollar := pairDollarMultipliers[row[0]]
	switch {
	case row[0] == row[1] && row[1] == row[2]:
		return wager * tripleMultipliers[row[0]]
	case row[0] == row[1] && row[2] == Dollar && isPairDollar:
		return wager * pairDollar
	case row[0] == row[1] && row[0] == Cherry:
		return wager * 5
	case row[0] == Cherry && row[1] != row[2]:
		return wager * 2
	default:
		return 0
	}
}

// Odds returns the probability of the exact row that was rolled, as the
// product of each cell's weight share. Informational only.
func Odds(row [3]Symbol) float64 {
	odds := 1.0
	for _, s := range row {
		odds *= float64(weights[s]) / float64(totalWeight)
	}
	return odds
}

// Multipliers exposes the payout table for the distribution command.
func Multipliers() (triples map[Symbol]int64, pairDollar map[Symbol]int64) {
	triples = make(map[Symbol]int64, len(tripleMultipliers))
	for s, m := range tripleMultipliers {
		triples[s] = m
	}
	pairDollar = make(map[Symbol]int64, len(pairDollarMultipliers))
	for s, m := range pairDollarMultipliers {
		pairDollar[s] = m
	}
	return triples, pairDollar
}
