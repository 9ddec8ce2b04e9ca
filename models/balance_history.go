package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial       TransactionType = "initial"
	TransactionTypeSlotsWager    TransactionType = "slots_wager"
	TransactionTypeSlotsWin      TransactionType = "slots_win"
	TransactionTypeRouletteWager TransactionType = "roulette_wager"
	TransactionTypeRouletteWin   TransactionType = "roulette_win"
	TransactionTypeRPSWin        TransactionType = "rps_win"
	TransactionTypeBlackjackBet  TransactionType = "blackjack_bet"
	TransactionTypeBlackjackWin  TransactionType = "blackjack_win"
	TransactionTypeCrashWager    TransactionType = "crash_wager"
	TransactionTypeCrashCashOut  TransactionType = "crash_cash_out"
	TransactionTypeReward        TransactionType = "reward"
	TransactionTypeTransferIn    TransactionType = "transfer_in"
	TransactionTypeTransferOut   TransactionType = "transfer_out"
	TransactionTypeShopPurchase  TransactionType = "shop_purchase"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	DiscordID           int64           `db:"discord_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
