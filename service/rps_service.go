package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"casino/events"
	"casino/games/rps"
	"casino/models"
)

// rpsService implements the RPSService interface
type rpsService struct {
	uowFactory UnitOfWorkFactory

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRPSService creates a new rock-paper-scissors service
func NewRPSService(uowFactory UnitOfWorkFactory) RPSService {
	return &rpsService{
		uowFactory: uowFactory,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *rpsService) Play(ctx context.Context, discordID int64, move rps.Move) (*RPSResult, error) {
	s.mu.Lock()
	botMove := rps.BotMove(s.rng)
	s.mu.Unlock()

	outcome := rps.Judge(move, botMove)

	result := &RPSResult{
		PlayerMove: move,
		BotMove:    botMove,
		Outcome:    outcome,
	}
	if outcome != rps.Win {
		return result, nil
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
	if user == nil {
		return nil, fmt.Errorf("user %d not found", discordID)
	}

	if err := uow.UserRepository().AddBalance(ctx, discordID, rps.WinReward); err != nil {
		return nil, fmt.Errorf("failed to credit reward: %w", err)
	}
	if err := uow.UserRepository().AddScore(ctx, discordID, rps.WinReward); err != nil {
		return nil, fmt.Errorf("failed to update score: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance + rps.WinReward,
		ChangeAmount:    rps.WinReward,
		TransactionType: models.TransactionTypeRPSWin,
		TransactionMetadata: map[string]any{
			"player_move": string(move),
			"bot_move":    string(botMove),
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record reward: %w", err)
	}

	uow.EventBus().Publish(events.GameResultEvent{
		UserID: discordID,
		Game:   "rps",
		Payout: rps.WinReward,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.Reward = rps.WinReward
	result.NewBalance = user.Balance + rps.WinReward
	return result, nil
}
