package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"casino/games/slots"
	"casino/models"

	"casino/events"
)

// slotsService implements the SlotsService interface
type slotsService struct {
	uowFactory UnitOfWorkFactory

	mu   sync.Mutex
	rng  *rand.Rand
	spin func(*rand.Rand) slots.Grid
}

// NewSlotsService creates a new slots service
func NewSlotsService(uowFactory UnitOfWorkFactory) SlotsService {
	return &slotsService{
		uowFactory: uowFactory,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		spin:       slots.Spin,
	}
}

func (s *slotsService) Play(ctx context.Context, discordID int64, wager int64) (*SlotsResult, error) {
	if wager <= 0 {
		return nil, fmt.Errorf("%w: wager must be positive", ErrInvalidArgument)
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
	if user == nil || user.Balance < wager {
		return nil, fmt.Errorf("%w: need %d", ErrInsufficientFunds, wager)
	}

	if err := uow.UserRepository().DeductBalance(ctx, discordID, wager); err != nil {
		return nil, fmt.Errorf("failed to deduct wager: %w", err)
	}

	wagerHistory := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance - wager,
		ChangeAmount:    -wager,
		TransactionType: models.TransactionTypeSlotsWager,
		TransactionMetadata: map[string]any{
			"wager": wager,
		},
	}
	if err := RecordBalanceChange(ctx, uow, wagerHistory); err != nil {
		return nil, fmt.Errorf("failed to record wager: %w", err)
	}

	s.mu.Lock()
	grid := s.spin(s.rng)
	s.mu.Unlock()

	payout := slots.Payout(grid[1], wager)
	newBalance := user.Balance - wager + payout

	if payout > 0 {
		if err := uow.UserRepository().AddBalance(ctx, discordID, payout); err != nil {
			return nil, fmt.Errorf("failed to credit payout: %w", err)
		}
		if err := uow.UserRepository().AddScore(ctx, discordID, payout-wager); err != nil {
			return nil, fmt.Errorf("failed to update score: %w", err)
		}

		winHistory := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   user.Balance - wager,
			BalanceAfter:    newBalance,
			ChangeAmount:    payout,
			TransactionType: models.TransactionTypeSlotsWin,
			TransactionMetadata: map[string]any{
				"wager":  wager,
				"payout": payout,
			},
		}
		if err := RecordBalanceChange(ctx, uow, winHistory); err != nil {
			return nil, fmt.Errorf("failed to record payout: %w", err)
		}
	}

	uow.EventBus().Publish(events.GameResultEvent{
		UserID: discordID,
		Game:   "slots",
		Wager:  wager,
		Payout: payout,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	var display slots3x3
	for row := range grid {
		for col := range grid[row] {
			display[row][col] = string(grid[row][col])
		}
	}

	return &SlotsResult{
		Grid:       display,
		Payout:     payout,
		Odds:       slots.Odds(grid[1]),
		NewBalance: newBalance,
	}, nil
}
