package service

import (
	"casino/games/blackjack"
	"casino/games/roulette"
	"casino/games/rps"
)

// TransferResult describes a completed peer payment
type TransferResult struct {
	Amount           int64
	SenderBalance    int64
	RecipientBalance int64
}

// SlotsResult describes one slot machine play
type SlotsResult struct {
	Grid       slots3x3
	Payout     int64
	Odds       float64
	NewBalance int64
}

type slots3x3 = [3][3]string

// RouletteBetResult describes one bet's outcome against the shared spin
type RouletteBetResult struct {
	Bet    roulette.Bet
	Payout int64
}

// RouletteResult describes one spin with all of its bets
type RouletteResult struct {
	Frames     []roulette.Frame
	Outcome    roulette.Color
	Bets       []RouletteBetResult
	NewBalance int64
}

// RPSResult describes one rock-paper-scissors round
type RPSResult struct {
	PlayerMove rps.Move
	BotMove    rps.Move
	Outcome    rps.Outcome
	Reward     int64
	NewBalance int64
}

// RewardResult describes a claimed timed reward
type RewardResult struct {
	Amount     int64
	NewBalance int64
}

// PurchaseResult describes a shop purchase
type PurchaseResult struct {
	ItemName   string
	Price      int64
	NewBalance int64
}

// BlackjackHandView is the rendered state of one hand
type BlackjackHandView struct {
	Index    int // 1-based
	Cards    []blackjack.Card
	Value    int
	Bet      int64
	Ongoing  bool
	CanSplit bool
}

// BlackjackView is the rendered state of a session after an operation.
// Settlement is non-nil exactly when the operation ended the game; the
// session no longer exists once it is set.
type BlackjackView struct {
	Hands       []BlackjackHandView
	DealerUp    blackjack.Card
	DealerValue int // value of the visible card only
	Settlement  *blackjack.Settlement
}

// CrashLoss identifies a player who rode the crash down
type CrashLoss struct {
	DiscordID int64
	Wager     int64
}

// CashOutResult describes a successful crash cash-out
type CashOutResult struct {
	Multiplier float64
	Payout     int64
}
