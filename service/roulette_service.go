package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"casino/events"
	"casino/games/roulette"
	"casino/models"
)

// MaxRouletteBets caps how many bets share one spin
const MaxRouletteBets = 3

// rouletteService implements the RouletteService interface
type rouletteService struct {
	uowFactory UnitOfWorkFactory

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRouletteService creates a new roulette service
func NewRouletteService(uowFactory UnitOfWorkFactory) RouletteService {
	return &rouletteService{
		uowFactory: uowFactory,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *rouletteService) Play(ctx context.Context, discordID int64, bets []roulette.Bet) (*RouletteResult, error) {
	if len(bets) == 0 || len(bets) > MaxRouletteBets {
		return nil, fmt.Errorf("%w: between 1 and %d bets per spin", ErrInvalidArgument, MaxRouletteBets)
	}

	var totalWager int64
	for _, bet := range bets {
		if bet.Amount <= 0 {
			return nil, fmt.Errorf("%w: wager must be positive", ErrInvalidArgument)
		}
		if !roulette.ValidSelector(bet.Selector) {
			return nil, fmt.Errorf("%w: unknown selector %q", ErrInvalidArgument, bet.Selector)
		}
		totalWager += bet.Amount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.Balance < totalWager {
		return nil, fmt.Errorf("%w: need %d", ErrInsufficientFunds, totalWager)
	}

	if err := uow.UserRepository().DeductBalance(ctx, discordID, totalWager); err != nil {
		return nil, fmt.Errorf("failed to deduct stake: %w", err)
	}

	wagerHistory := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance - totalWager,
		ChangeAmount:    -totalWager,
		TransactionType: models.TransactionTypeRouletteWager,
		TransactionMetadata: map[string]any{
			"total_wager": totalWager,
			"bet_count":   len(bets),
		},
	}
	if err := RecordBalanceChange(ctx, uow, wagerHistory); err != nil {
		return nil, fmt.Errorf("failed to record stake: %w", err)
	}

	s.mu.Lock()
	frames, outcome := roulette.Spin(s.rng)
	s.mu.Unlock()

	// Every bet settles against the one shared spin; each pays from its
	// own amount.
	betResults := make([]RouletteBetResult, 0, len(bets))
	var totalPayout int64
	for _, bet := range bets {
		payout := roulette.Payout(bet, outcome)
		totalPayout += payout
		betResults = append(betResults, RouletteBetResult{Bet: bet, Payout: payout})
	}

	newBalance := user.Balance - totalWager + totalPayout

	if totalPayout > 0 {
		if err := uow.UserRepository().AddBalance(ctx, discordID, totalPayout); err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
		if err := uow.UserRepository().AddScore(ctx, discordID, totalPayout-totalWager); err != nil {
			return nil, fmt.Errorf("failed to update score: %w", err)
		}

		winHistory := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   user.Balance - totalWager,
			BalanceAfter:    newBalance,
			ChangeAmount:    totalPayout,
			TransactionType: models.TransactionTypeRouletteWin,
			TransactionMetadata: map[string]any{
				"outcome": string(outcome),
				"payout":  totalPayout,
			},
		}
		if err := RecordBalanceChange(ctx, uow, winHistory); err != nil {
			return nil, fmt.Errorf("failed to record payout: %w", err)
		}
	}

	uow.EventBus().Publish(events.GameResultEvent{
		UserID: discordID,
		Game:   "roulette",
		Wager:  totalWager,
		Payout: totalPayout,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &RouletteResult{
		Frames:     frames,
		Outcome:    outcome,
		Bets:       betResults,
		NewBalance: newBalance,
	}, nil
}
