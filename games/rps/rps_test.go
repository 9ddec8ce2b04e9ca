package rps

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJudge(t *testing.T) {
	tests := []struct {
		player   Move
		bot      Move
		expected Outcome
	}{
		{Rock, Scissors, Win},
		{Paper, Rock, Win},
		{Scissors, Paper, Win},
		{Rock, Paper, Loss},
		{Paper, Scissors, Loss},
		{Scissors, Rock, Loss},
		{Rock, Rock, Draw},
		{Paper, Paper, Draw},
		{Scissors, Scissors, Draw},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Judge(tt.player, tt.bot), "%s vs %s", tt.player, tt.bot)
	}
}

func TestParseMove(t *testing.T) {
	for _, s := range []string{"rock", "Rock", "PAPER", "scissors"} {
		move, ok := ParseMove(s)
		assert.True(t, ok, "%q should parse", s)
		assert.NotEmpty(t, move)
	}

	for _, s := range []string{"", "spock", "rockk", "r"} {
		_, ok := ParseMove(s)
		assert.False(t, ok, "%q should not parse", s)
	}
}

func TestBotMove_CoversAllMoves(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	seen := make(map[Move]bool)
	for i := 0; i < 100; i++ {
		seen[BotMove(rng)] = true
	}
	assert.Len(t, seen, 3)
}
