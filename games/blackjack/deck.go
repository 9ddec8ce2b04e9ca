// Package blackjack implements the multi-hand blackjack state machine.
package blackjack

import "math/rand"

// Card is a blackjack card value: 2-10 plus 11 for an ace. Face cards
// collapse to 10, so the draw distribution weights 10 four ways.
type Card int

const ace Card = 11

// deck is the per-rank draw distribution; draws are with replacement.
var deck = []Card{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, 11}

// Draw deals one card.
func Draw(rng *rand.Rand) Card {
	return deck[rng.Intn(len(deck))]
}

// HandValue scores a hand. At most one ace downgrades from 11 to 1, and
// only when the raw sum would bust. Pure: the hand is never mutated, so
// repeated calls always agree.
func HandValue(cards []Card) int {
	value := 0
	hasAce := false
	for _, c := range cards {
		value += int(c)
		if c == ace {
			hasAce = true
		}
	}
	if value > 21 && hasAce {
		value -= 10
	}
	return value
}

// IsPair reports whether a two-card hand can be split.
func IsPair(cards []Card) bool {
	return len(cards) == 2 && cards[0] == cards[1]
}
