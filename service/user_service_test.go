package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casino/models"
)

func newUserFixture() (UserService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockBalanceHistoryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockUoW.SetRepositories(mockUserRepo, mockHistoryRepo, nil, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return NewUserService(mockFactory, 1000), mockFactory, mockUoW, mockUserRepo, mockHistoryRepo
}

func TestUserService_GetOrCreateUser_Existing(t *testing.T) {
	ctx := context.Background()
	svc, _, _, mockUserRepo, mockHistoryRepo := newUserFixture()

	existing := &models.User{DiscordID: 123456, Username: "alice", Balance: 250}
	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).Return(existing, nil)

	user, err := svc.GetOrCreateUser(ctx, 123456, "alice")

	require.NoError(t, err)
	assert.Equal(t, existing, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockHistoryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestUserService_GetOrCreateUser_CreatesWithStartingBalance(t *testing.T) {
	ctx := context.Background()
	svc, _, _, mockUserRepo, mockHistoryRepo := newUserFixture()

	created := &models.User{DiscordID: 123456, Username: "alice", Balance: 1000}
	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).Return(nil, nil)
	mockUserRepo.On("Create", ctx, int64(123456), "alice", int64(1000)).Return(created, nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeInitial &&
			h.BalanceBefore == 0 && h.BalanceAfter == 1000
	})).Return(nil)

	user, err := svc.GetOrCreateUser(ctx, 123456, "alice")

	require.NoError(t, err)
	assert.Equal(t, created, user)
	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestUserService_Leaderboard_AppliesLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, _, mockUserRepo, _ := newUserFixture()

	all := []*models.User{
		{DiscordID: 1, Balance: 500},
		{DiscordID: 2, Balance: 300},
		{DiscordID: 3, Balance: 100},
	}
	mockUserRepo.On("GetUsersWithPositiveBalance", ctx).Return(all, nil)

	users, err := svc.Leaderboard(ctx, 2)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].DiscordID)
	assert.Equal(t, int64(2), users[1].DiscordID)
}

func TestUserService_Transfer(t *testing.T) {
	ctx := context.Background()
	svc, _, _, mockUserRepo, mockHistoryRepo := newUserFixture()

	mockUserRepo.On("GetByDiscordID", ctx, int64(111)).Return(&models.User{DiscordID: 111, Balance: 500}, nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(222)).Return(&models.User{DiscordID: 222, Balance: 50}, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(111), int64(200)).Return(nil)
	mockUserRepo.On("AddBalance", ctx, int64(222), int64(200)).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeTransferOut && h.DiscordID == 111 && h.ChangeAmount == -200
	})).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeTransferIn && h.DiscordID == 222 && h.ChangeAmount == 200
	})).Return(nil)

	result, err := svc.Transfer(ctx, 111, 222, 200)

	require.NoError(t, err)
	assert.Equal(t, int64(200), result.Amount)
	assert.Equal(t, int64(300), result.SenderBalance)
	assert.Equal(t, int64(250), result.RecipientBalance)

	mockUserRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestUserService_Transfer_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive amount", func(t *testing.T) {
		svc, mockFactory, _, _, _ := newUserFixture()
		_, err := svc.Transfer(ctx, 111, 222, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("self transfer", func(t *testing.T) {
		svc, mockFactory, _, _, _ := newUserFixture()
		_, err := svc.Transfer(ctx, 111, 111, 100)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		mockFactory.AssertNotCalled(t, "Create")
	})

	t.Run("insufficient funds", func(t *testing.T) {
		svc, _, mockUoW, mockUserRepo, _ := newUserFixture()
		mockUserRepo.On("GetByDiscordID", ctx, int64(111)).Return(&models.User{DiscordID: 111, Balance: 50}, nil)

		_, err := svc.Transfer(ctx, 111, 222, 200)

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		mockUserRepo.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("unknown recipient", func(t *testing.T) {
		svc, _, mockUoW, mockUserRepo, _ := newUserFixture()
		mockUserRepo.On("GetByDiscordID", ctx, int64(111)).Return(&models.User{DiscordID: 111, Balance: 500}, nil)
		mockUserRepo.On("GetByDiscordID", ctx, int64(222)).Return(nil, nil)

		_, err := svc.Transfer(ctx, 111, 222, 200)

		assert.ErrorIs(t, err, ErrInvalidArgument)
		mockUserRepo.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything)
		mockUoW.AssertNotCalled(t, "Commit")
	})
}
