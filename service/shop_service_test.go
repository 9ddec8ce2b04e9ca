package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"casino/models"
)

func TestShopService_Catalog(t *testing.T) {
	svc := NewShopService(new(MockUnitOfWorkFactory))

	items := svc.Catalog()

	require.Len(t, items, 3)
	assert.Equal(t, "rock", items[0].Name)
	assert.Equal(t, int64(1000000), items[0].Price)
	assert.Equal(t, "plastic_cup", items[1].Name)
	assert.Equal(t, "paperclip", items[2].Name)
}

func TestShopService_Buy(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockInventoryRepo := new(MockInventoryRepository)
	mockUoW.SetRepositories(mockUserRepo, mockHistoryRepo, mockInventoryRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).
		Return(&models.User{DiscordID: 123456, Balance: 15000}, nil)
	mockUserRepo.On("DeductBalance", ctx, int64(123456), int64(10000)).Return(nil)
	mockInventoryRepo.On("AddItem", ctx, int64(123456), "paperclip", int64(1)).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeShopPurchase && h.ChangeAmount == -10000
	})).Return(nil)

	svc := NewShopService(mockFactory)
	result, err := svc.Buy(ctx, 123456, "paperclip")

	require.NoError(t, err)
	assert.Equal(t, "paperclip", result.ItemName)
	assert.Equal(t, int64(10000), result.Price)
	assert.Equal(t, int64(5000), result.NewBalance)

	mockUserRepo.AssertExpectations(t)
	mockInventoryRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestShopService_Buy_UnknownItem(t *testing.T) {
	mockFactory := new(MockUnitOfWorkFactory)
	svc := NewShopService(mockFactory)

	_, err := svc.Buy(context.Background(), 123456, "yacht")

	assert.ErrorIs(t, err, ErrInvalidArgument)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestShopService_Buy_InsufficientFunds(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockInventoryRepo := new(MockInventoryRepository)
	mockUoW.SetRepositories(mockUserRepo, new(MockBalanceHistoryRepository), mockInventoryRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByDiscordID", ctx, int64(123456)).
		Return(&models.User{DiscordID: 123456, Balance: 500}, nil)

	svc := NewShopService(mockFactory)
	_, err := svc.Buy(ctx, 123456, "paperclip")

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	mockInventoryRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestShopService_Inventory(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockInventoryRepo := new(MockInventoryRepository)
	mockUoW.SetRepositories(new(MockUserRepository), new(MockBalanceHistoryRepository), mockInventoryRepo, nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	owned := []*models.InventoryItem{
		{DiscordID: 123456, ItemName: "paperclip", Quantity: 3},
		{DiscordID: 123456, ItemName: "rock", Quantity: 1},
	}
	mockInventoryRepo.On("GetByUser", ctx, int64(123456)).Return(owned, nil)

	svc := NewShopService(mockFactory)
	items, err := svc.Inventory(ctx, 123456)

	require.NoError(t, err)
	assert.Equal(t, owned, items)
}
