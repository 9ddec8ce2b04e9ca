package service

import (
	"context"

	"casino/events"
	"casino/games/roulette"
	"casino/games/rps"
	"casino/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil when absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Create creates a new user with the initial balance
	Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, error)

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, discordID int64, amount int64) error

	// DeductBalance deducts from a user's balance atomically, failing if insufficient funds
	DeductBalance(ctx context.Context, discordID int64, amount int64) error

	// AddScore adjusts a user's lifetime net-winnings score
	AddScore(ctx context.Context, discordID int64, delta int64) error

	// GetUsersWithPositiveBalance returns all users with balance > 0, richest first
	GetUsersWithPositiveBalance(ctx context.Context) ([]*models.User, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns recent balance history for a specific user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// InventoryRepository defines the interface for inventory data access
type InventoryRepository interface {
	// AddItem increments the owned quantity of an item, creating the row on first purchase
	AddItem(ctx context.Context, discordID int64, itemName string, quantity int64) error

	// GetByUser returns every item stack a user owns
	GetByUser(ctx context.Context, discordID int64) ([]*models.InventoryItem, error)
}

// RewardClaimRepository defines the interface for timed reward bookkeeping
type RewardClaimRepository interface {
	// GetLastClaim returns the most recent claim of a reward kind, nil when never claimed
	GetLastClaim(ctx context.Context, discordID int64, kind models.RewardKind) (*models.RewardClaim, error)

	// Upsert records a claim, replacing any previous one for the same kind
	Upsert(ctx context.Context, claim *models.RewardClaim) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	InventoryRepository() InventoryRepository
	RewardClaimRepository() RewardClaimRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UserService defines the interface for user and economy operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates a new one with the starting balance
	GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error)

	// Leaderboard returns the top users by balance
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)

	// Transfer moves tokens from sender to recipient
	Transfer(ctx context.Context, fromDiscordID, toDiscordID int64, amount int64) (*TransferResult, error)
}

// SlotsService plays the slot machine
type SlotsService interface {
	Play(ctx context.Context, discordID int64, wager int64) (*SlotsResult, error)
}

// RouletteService plays roulette with up to three bets on one spin
type RouletteService interface {
	Play(ctx context.Context, discordID int64, bets []roulette.Bet) (*RouletteResult, error)
}

// RPSService plays rock-paper-scissors for a flat reward
type RPSService interface {
	Play(ctx context.Context, discordID int64, move rps.Move) (*RPSResult, error)
}

// RewardService claims timed rewards gated by persistent cooldowns
type RewardService interface {
	Claim(ctx context.Context, discordID int64, kind models.RewardKind) (*RewardResult, error)
}

// ShopService sells catalog items into persistent inventories
type ShopService interface {
	// Catalog returns the purchasable items in display order
	Catalog() []models.ShopItem

	// Buy debits the item price and adds it to the buyer's inventory
	Buy(ctx context.Context, discordID int64, itemName string) (*PurchaseResult, error)

	// Inventory returns everything a user owns
	Inventory(ctx context.Context, discordID int64) ([]*models.InventoryItem, error)
}

// BlackjackService drives the per-user multi-hand blackjack state machine.
// Hand indexes are 1-based, matching the bot commands.
type BlackjackService interface {
	Start(ctx context.Context, discordID int64, bet int64) (*BlackjackView, error)
	Hit(ctx context.Context, discordID int64, handIndex int) (*BlackjackView, error)
	Stand(ctx context.Context, discordID int64, handIndex int) (*BlackjackView, error)
	Double(ctx context.Context, discordID int64, handIndex int) (*BlackjackView, error)
	Split(ctx context.Context, discordID int64) (*BlackjackView, error)
	SetHandBet(ctx context.Context, discordID int64, handIndex int, bet int64) (*BlackjackView, error)
}

// CrashBroadcaster receives live updates from a running crash round.
// Implementations are fire-and-forget message senders.
type CrashBroadcaster interface {
	Countdown(secondsLeft int)
	Multiplier(multiplier float64)
	Crashed(multiplier float64, losses []CrashLoss)
}

// CrashService drives the single shared crash round
type CrashService interface {
	// Run starts a round and blocks through countdown, climb and crash.
	// Rejected with ErrSessionAlreadyActive while a round exists.
	Run(ctx context.Context, broadcaster CrashBroadcaster) error

	// Join buys a player into the current round; repeat joins are no-ops
	Join(ctx context.Context, discordID int64, wager int64) error

	// CashOut locks in floor(wager × multiplier) for a joined player
	CashOut(ctx context.Context, discordID int64) (*CashOutResult, error)
}
