package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casino/games/roulette"
	"casino/models"
)

func TestRouletteService_Play(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockUoW.SetRepositories(mockUserRepo, mockHistoryRepo, nil, nil)

	// Replay the spin with the same seed to know the outcome up front
	_, outcome := roulette.Spin(rand.New(rand.NewSource(7)))
	svc := NewRouletteService(mockFactory).(*rouletteService)
	svc.rng = rand.New(rand.NewSource(7))

	bets := []roulette.Bet{
		{Amount: 10, Selector: "red"},
		{Amount: 10, Selector: "black"},
		{Amount: 10, Selector: "green"},
	}
	var expectedPayout int64
	for _, bet := range bets {
		expectedPayout += roulette.Payout(bet, outcome)
	}
	require.Positive(t, expectedPayout)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).
		Return(&models.User{DiscordID: 123456, Balance: 1000}, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(123456), int64(30)).Return(nil)
	mockUserRepo.On("AddBalance", ctx, int64(123456), expectedPayout).Return(nil)
	mockUserRepo.On("AddScore", ctx, int64(123456), expectedPayout-30).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)

	result, err := svc.Play(ctx, 123456, bets)

	require.NoError(t, err)
	assert.Equal(t, outcome, result.Outcome)
	assert.Equal(t, int64(1000-30)+expectedPayout, result.NewBalance)
	require.Len(t, result.Bets, 3)

	var gotPayout int64
	for _, betResult := range result.Bets {
		gotPayout += betResult.Payout
	}
	assert.Equal(t, expectedPayout, gotPayout)

	mockUserRepo.AssertExpectations(t)
}

func TestRouletteService_Play_Validation(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewRouletteService(mockFactory)

	_, err := svc.Play(ctx, 123456, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	tooMany := []roulette.Bet{
		{Amount: 1, Selector: "red"},
		{Amount: 1, Selector: "black"},
		{Amount: 1, Selector: "green"},
		{Amount: 1, Selector: "17"},
	}
	_, err = svc.Play(ctx, 123456, tooMany)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Play(ctx, 123456, []roulette.Bet{{Amount: 0, Selector: "red"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Play(ctx, 123456, []roulette.Bet{{Amount: 10, Selector: "purple"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Play(ctx, 123456, []roulette.Bet{{Amount: 10, Selector: "37"}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestRouletteService_Play_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockUoW.SetRepositories(mockUserRepo, new(MockBalanceHistoryRepository), nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).
		Return(&models.User{DiscordID: 123456, Balance: 25}, nil)

	svc := NewRouletteService(mockFactory)
	_, err := svc.Play(ctx, 123456, []roulette.Bet{
		{Amount: 20, Selector: "red"},
		{Amount: 20, Selector: "black"},
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	mockUserRepo.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}
