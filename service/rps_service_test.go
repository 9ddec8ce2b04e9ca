package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casino/games/rps"
	"casino/models"
)

// counterOf returns the move that beats the given one.
func counterOf(move rps.Move) rps.Move {
	switch move {
	case rps.Rock:
		return rps.Paper
	case rps.Paper:
		return rps.Scissors
	default:
		return rps.Rock
	}
}

func TestRPSService_Play_WinCreditsReward(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockUoW.SetRepositories(mockUserRepo, mockHistoryRepo, nil, nil)

	// Replay the bot's draw with the same seed, then counter it
	botMove := rps.BotMove(rand.New(rand.NewSource(3)))
	svc := NewRPSService(mockFactory).(*rpsService)
	svc.rng = rand.New(rand.NewSource(3))

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).
		Return(&models.User{DiscordID: 123456, Balance: 200}, nil)
	mockUserRepo.On("AddBalance", ctx, int64(123456), rps.WinReward).Return(nil)
	mockUserRepo.On("AddScore", ctx, int64(123456), rps.WinReward).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeRPSWin && h.ChangeAmount == rps.WinReward
	})).Return(nil)

	result, err := svc.Play(ctx, 123456, counterOf(botMove))

	require.NoError(t, err)
	assert.Equal(t, rps.Win, result.Outcome)
	assert.Equal(t, botMove, result.BotMove)
	assert.Equal(t, rps.WinReward, result.Reward)
	assert.Equal(t, int64(200)+rps.WinReward, result.NewBalance)

	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestRPSService_Play_LossTouchesNothing(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)

	botMove := rps.BotMove(rand.New(rand.NewSource(3)))
	svc := NewRPSService(mockFactory).(*rpsService)
	svc.rng = rand.New(rand.NewSource(3))

	// The move the bot's move beats
	losingMove := counterOf(counterOf(botMove))

	result, err := svc.Play(ctx, 123456, losingMove)

	require.NoError(t, err)
	assert.Equal(t, rps.Loss, result.Outcome)
	assert.Zero(t, result.Reward)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestRPSService_Play_DrawTouchesNothing(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)

	botMove := rps.BotMove(rand.New(rand.NewSource(3)))
	svc := NewRPSService(mockFactory).(*rpsService)
	svc.rng = rand.New(rand.NewSource(3))

	result, err := svc.Play(ctx, 123456, botMove)

	require.NoError(t, err)
	assert.Equal(t, rps.Draw, result.Outcome)
	assert.Zero(t, result.Reward)
	mockFactory.AssertNotCalled(t, "Create")
}
