// Package rps implements rock-paper-scissors against the house.
package rps

import (
	"math/rand"
	"strings"
)

// Move is a player or bot throw.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Outcome is the result of a round from the player's perspective.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Loss
)

// WinReward is what a winning round credits.
const WinReward int64 = 100

var moves = []Move{Rock, Paper, Scissors}

// beats maps each move to the move it defeats.
var beats = map[Move]Move{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// ParseMove normalizes user input into a Move.
func ParseMove(s string) (Move, bool) {
	m := Move(strings.ToLower(s))
	switch m {
	case Rock, Paper, Scissors:
		return m, true
	}
	return "", false
}

// BotMove draws a uniform random throw.
func BotMove(rng *rand.Rand) Move {
	return moves[rng.Intn(len(moves))]
}

// Judge resolves a round.
func Judge(player, bot Move) Outcome {
	switch {
	case player == bot:
		return Draw
	case beats[player] == bot:
		return Win
	default:
		return Loss
	}
}
