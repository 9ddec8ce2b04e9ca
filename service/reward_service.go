package service

import (
	"context"
	"fmt"
	"time"

	"casino/events"
	"casino/models"
)

// rewardSchedule fixes the amount and cooldown per reward kind
var rewardSchedule = map[models.RewardKind]struct {
	Amount   int64
	Cooldown time.Duration
}{
	models.RewardKindHourly:  {Amount: 10, Cooldown: time.Hour},
	models.RewardKindDaily:   {Amount: 100, Cooldown: 24 * time.Hour},
	models.RewardKindMonthly: {Amount: 5000, Cooldown: 30 * 24 * time.Hour},
}

// rewardService implements the RewardService interface
type rewardService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewRewardService creates a new reward service
func NewRewardService(uowFactory UnitOfWorkFactory) RewardService {
	return &rewardService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Claim credits a timed reward, rejecting with RateLimitedError while
// the previous claim's cooldown is still running.
func (s *rewardService) Claim(ctx context.Context, discordID int64, kind models.RewardKind) (*RewardResult, error) {
	schedule, ok := rewardSchedule[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reward kind %q", ErrInvalidArgument, kind)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	now := s.now()

	last, err := uow.RewardClaimRepository().GetLastClaim(ctx, discordID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get last claim: %w", err)
	}
	if last != nil {
		elapsed := now.Sub(last.ClaimedAt)
		if elapsed < schedule.Cooldown {
			return nil, &RateLimitedError{Remaining: schedule.Cooldown - elapsed}
		}
	}

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", discordID)
	}

	if err := uow.UserRepository().AddBalance(ctx, discordID, schedule.Amount); err != nil {
		return nil, fmt.Errorf("failed to credit reward: %w", err)
	}

	if err := uow.RewardClaimRepository().Upsert(ctx, &models.RewardClaim{
		DiscordID:  discordID,
		RewardKind: kind,
		ClaimedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("failed to record claim: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance + schedule.Amount,
		ChangeAmount:    schedule.Amount,
		TransactionType: models.TransactionTypeReward,
		TransactionMetadata: map[string]any{
			"reward_kind": string(kind),
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record reward: %w", err)
	}

	uow.EventBus().Publish(events.RewardClaimedEvent{
		UserID: discordID,
		Kind:   string(kind),
		Amount: schedule.Amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &RewardResult{
		Amount:     schedule.Amount,
		NewBalance: user.Balance + schedule.Amount,
	}, nil
}
