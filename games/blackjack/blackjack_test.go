package blackjack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandValue(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		expected int
	}{
		{"simple sum", []Card{2, 3}, 5},
		{"twenty one", []Card{10, 11}, 21},
		{"ace stays eleven under 21", []Card{11, 9}, 20},
		{"ace downgrades on bust", []Card{11, 10, 5}, 16},
		{"only one ace downgrades", []Card{11, 11}, 12},
		{"two aces plus ten", []Card{11, 11, 10}, 22},
		{"bust without ace", []Card{10, 10, 5}, 25},
		{"empty hand", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HandValue(tt.cards))
		})
	}
}

func TestHandValue_Pure(t *testing.T) {
	cards := []Card{11, 10, 5}
	first := HandValue(cards)
	second := HandValue(cards)
	assert.Equal(t, first, second)
	assert.Equal(t, []Card{11, 10, 5}, cards)
}

func TestIsPair(t *testing.T) {
	assert.True(t, IsPair([]Card{8, 8}))
	assert.True(t, IsPair([]Card{11, 11}))
	assert.False(t, IsPair([]Card{8, 9}))
	assert.False(t, IsPair([]Card{8}))
	assert.False(t, IsPair([]Card{8, 8, 8}))
}

func TestDraw_WithinDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		card := Draw(rng)
		assert.GreaterOrEqual(t, int(card), 2)
		assert.LessOrEqual(t, int(card), 11)
	}
}

func TestNewSession(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	session := NewSession(123, 100, rng)

	require.Len(t, session.Hands, 1)
	assert.Len(t, session.Hands[0].Cards, 2)
	assert.Equal(t, int64(100), session.Hands[0].Bet)
	assert.Equal(t, HandOngoing, session.Hands[0].Status)
	assert.NotZero(t, session.DealerUp)
	assert.Nil(t, session.DealerHole)
}

func TestSession_HitBust(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	session := NewSession(123, 100, rng)
	hand := session.Hands[0]

	// Any draw busts a hard twenty
	hand.Cards = []Card{10, 10}
	busted := session.Hit(hand, rng)

	assert.True(t, busted)
	assert.Equal(t, HandEnded, hand.Status)
	assert.Greater(t, hand.Value(), 21)
}

func TestSession_Split(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	session := NewSession(123, 100, rng)
	session.Hands[0].Cards = []Card{8, 8}

	session.Split(rng)

	require.Len(t, session.Hands, 2)
	assert.Equal(t, Card(8), session.Hands[0].Cards[0])
	assert.Equal(t, Card(8), session.Hands[1].Cards[1])
	assert.Equal(t, int64(100), session.Hands[1].Bet)
	for _, hand := range session.Hands {
		assert.Len(t, hand.Cards, 2)
		assert.Equal(t, HandOngoing, hand.Status)
	}
}

func TestSession_AllEnded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	session := NewSession(123, 100, rng)
	session.Hands[0].Cards = []Card{8, 8}
	session.Split(rng)

	assert.False(t, session.AllEnded())
	session.Hands[0].Status = HandEnded
	assert.False(t, session.AllEnded())
	session.Hands[1].Status = HandEnded
	assert.True(t, session.AllEnded())
}

func TestSession_Settle(t *testing.T) {
	tests := []struct {
		name            string
		playerCards     []Card
		dealerUp        Card
		expectedOutcome func(dealerValue int) HandOutcome
		expectedPayout  func(dealerValue int) int64
	}{
		{
			name:        "player bust always loses",
			playerCards: []Card{10, 10, 5},
			dealerUp:    2,
			expectedOutcome: func(int) HandOutcome {
				return OutcomeLoss
			},
			expectedPayout: func(int) int64 { return 0 },
		},
		{
			name:        "twenty one beats any non-21 dealer",
			playerCards: []Card{10, 11},
			dealerUp:    5,
			expectedOutcome: func(dealerValue int) HandOutcome {
				if dealerValue == 21 {
					return OutcomePush
				}
				return OutcomeWin
			},
			expectedPayout: func(dealerValue int) int64 {
				if dealerValue == 21 {
					return 100
				}
				return 250
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(9))
			session := NewSession(123, 100, rng)
			session.Hands[0].Cards = tt.playerCards
			session.Hands[0].Status = HandEnded
			session.DealerUp = tt.dealerUp

			settlement := session.Settle(rng)

			require.NotNil(t, session.DealerHole)
			require.Len(t, settlement.DealerCards, 2)
			assert.Equal(t, tt.dealerUp, settlement.DealerCards[0])
			assert.Equal(t, HandValue(settlement.DealerCards), settlement.DealerValue)

			require.Len(t, settlement.Results, 1)
			result := settlement.Results[0]
			assert.Equal(t, 1, result.HandIndex)
			assert.Equal(t, tt.expectedOutcome(settlement.DealerValue), result.Outcome)
			assert.Equal(t, tt.expectedPayout(settlement.DealerValue), result.Winnings)
		})
	}
}

func TestSession_SettleWinPaysTwoAndAHalf(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	session := NewSession(123, 100, rng)
	session.Hands[0].Cards = []Card{10, 11} // 21, can at worst push
	session.Hands[0].Status = HandEnded

	settlement := session.Settle(rng)
	result := settlement.Results[0]

	if result.Outcome == OutcomeWin {
		assert.Equal(t, int64(250), result.Winnings)
	} else {
		assert.Equal(t, OutcomePush, result.Outcome)
		assert.Equal(t, int64(100), result.Winnings)
	}
}
