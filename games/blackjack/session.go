package blackjack

import "math/rand"

// HandStatus tracks one hand's lifecycle.
type HandStatus int

const (
	HandOngoing HandStatus = iota
	HandEnded
)

// Hand is one card grouping with its own bet.
type Hand struct {
	Cards  []Card
	Bet    int64
	Status HandStatus
}

// Value scores the hand.
func (h *Hand) Value() int {
	return HandValue(h.Cards)
}

// IsPair reports whether the hand can be split.
func (h *Hand) IsPair() bool {
	return IsPair(h.Cards)
}

// Session is one user's live blackjack game. The dealer's hole card is
// nil until settlement reveals it.
type Session struct {
	OwnerID    int64
	Hands      []*Hand
	DealerUp   Card
	DealerHole *Card
}

// NewSession deals the opening round: two player cards, one visible
// dealer card, and a concealed hole card.
func NewSession(ownerID int64, bet int64, rng *rand.Rand) *Session {
	return &Session{
		OwnerID: ownerID,
		Hands: []*Hand{{
			Cards:  []Card{Draw(rng), Draw(rng)},
			Bet:    bet,
			Status: HandOngoing,
		}},
		DealerUp: Draw(rng),
	}
}

// Hit appends one drawn card to the hand and ends it on a bust.
// Returns true if the hand busted.
func (s *Session) Hit(h *Hand, rng *rand.Rand) bool {
	h.Cards = append(h.Cards, Draw(rng))
	if h.Value() > 21 {
		h.Status = HandEnded
		return true
	}
	return false
}

// Split turns the single paired hand into two ongoing hands with the
// same bet, replacing the original's second card and the duplicate's
// first card with fresh draws. Validation is the caller's job.
func (s *Session) Split(rng *rand.Rand) {
	original := s.Hands[0]
	duplicate := &Hand{
		Cards:  []Card{original.Cards[0], original.Cards[1]},
		Bet:    original.Bet,
		Status: HandOngoing,
	}
	original.Cards[1] = Draw(rng)
	duplicate.Cards[0] = Draw(rng)
	s.Hands = append(s.Hands, duplicate)
}

// AllEnded reports whether every hand has finished.
func (s *Session) AllEnded() bool {
	for _, h := range s.Hands {
		if h.Status != HandEnded {
			return false
		}
	}
	return true
}

// HandOutcome classifies one settled hand.
type HandOutcome int

const (
	OutcomeLoss HandOutcome = iota
	OutcomeWin
	OutcomePush
)

// HandResult is the settlement of one hand. Winnings is the amount
// credited back to the player (zero on a loss; the bet was already
// debited when it was placed).
type HandResult struct {
	HandIndex int // 1-based
	Cards     []Card
	Value     int
	Outcome   HandOutcome
	Bet       int64
	Winnings  int64
}

// Settlement is the full game resolution.
type Settlement struct {
	DealerCards []Card
	DealerValue int
	Results     []HandResult
}

// Settle reveals the dealer's hole card and resolves every hand. The
// dealer's total stands as dealt; the dealer never draws further cards.
func (s *Session) Settle(rng *rand.Rand) Settlement {
	hole := Draw(rng)
	s.DealerHole = &hole
	dealerCards := []Card{s.DealerUp, hole}
	dealerValue := HandValue(dealerCards)

	settlement := Settlement{
		DealerCards: dealerCards,
		DealerValue: dealerValue,
	}

	for i, h := range s.Hands {
		result := HandResult{
			HandIndex: i + 1,
			Cards:     h.Cards,
			Value:     h.Value(),
			Bet:       h.Bet,
		}
		switch {
		case result.Value > 21:
			result.Outcome = OutcomeLoss
		case dealerValue > 21 || result.Value > dealerValue:
			result.Outcome = OutcomeWin
			result.Winnings = int64(float64(h.Bet) * 2.5)
		case result.Value == dealerValue:
			result.Outcome = OutcomePush
			result.Winnings = h.Bet
		default:
			result.Outcome = OutcomeLoss
		}
		settlement.Results = append(settlement.Results, result)
	}

	return settlement
}
