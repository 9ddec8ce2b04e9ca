package service

import (
	"context"
	"fmt"

	"casino/models"
)

// catalog is the static shop inventory in display order
var catalog = []models.ShopItem{
	{Name: "rock", Price: 1000000},
	{Name: "plastic_cup", Price: 100000},
	{Name: "paperclip", Price: 10000},
}

// shopService implements the ShopService interface
type shopService struct {
	uowFactory UnitOfWorkFactory
}

// NewShopService creates a new shop service
func NewShopService(uowFactory UnitOfWorkFactory) ShopService {
	return &shopService{uowFactory: uowFactory}
}

// Catalog returns the purchasable items in display order
func (s *shopService) Catalog() []models.ShopItem {
	items := make([]models.ShopItem, len(catalog))
	copy(items, catalog)
	return items
}

// Buy debits the item price and adds one of the item to the buyer's inventory
func (s *shopService) Buy(ctx context.Context, discordID int64, itemName string) (*PurchaseResult, error) {
	var item *models.ShopItem
	for i := range catalog {
		if catalog[i].Name == itemName {
			item = &catalog[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %q is not in the shop", ErrInvalidArgument, itemName)
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
	if user == nil || user.Balance < item.Price {
		return nil, fmt.Errorf("%w: need %d", ErrInsufficientFunds, item.Price)
	}

	if err := uow.UserRepository().DeductBalance(ctx, discordID, item.Price); err != nil {
		return nil, fmt.Errorf("failed to deduct price: %w", err)
	}

	if err := uow.InventoryRepository().AddItem(ctx, discordID, item.Name, 1); err != nil {
		return nil, fmt.Errorf("failed to add inventory item: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    user.Balance - item.Price,
		ChangeAmount:    -item.Price,
		TransactionType: models.TransactionTypeShopPurchase,
		TransactionMetadata: map[string]any{
			"item_name": item.Name,
			"price":     item.Price,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record purchase: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &PurchaseResult{
		ItemName:   item.Name,
		Price:      item.Price,
		NewBalance: user.Balance - item.Price,
	}, nil
}

// Inventory returns everything a user owns
func (s *shopService) Inventory(ctx context.Context, discordID int64) ([]*models.InventoryItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.InventoryRepository().GetByUser(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return items, nil
}
