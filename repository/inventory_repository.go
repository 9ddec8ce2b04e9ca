package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/models"
)

// InventoryRepository implements the InventoryRepository interface
type InventoryRepository struct {
	q queryable
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{q: db.Pool}
}

// newInventoryRepositoryWithTx creates a new inventory repository with a transaction
func newInventoryRepositoryWithTx(tx queryable) *InventoryRepository {
	return &InventoryRepository{q: tx}
}

// AddItem increments the owned quantity of an item, creating the row on first purchase
func (r *InventoryRepository) AddItem(ctx context.Context, discordID int64, itemName string, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	query := `
		INSERT INTO inventories (discord_id, item_name, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id, item_name)
		DO UPDATE SET quantity = inventories.quantity + $3, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, discordID, itemName, quantity); err != nil {
		return fmt.Errorf("failed to add item %q for user %d: %w", itemName, discordID, err)
	}

	return nil
}

// GetByUser returns every item stack a user owns
func (r *InventoryRepository) GetByUser(ctx context.Context, discordID int64) ([]*models.InventoryItem, error) {
	query := `
		SELECT discord_id, item_name, quantity, updated_at
		FROM inventories
		WHERE discord_id = $1 AND quantity > 0
		ORDER BY item_name
	`

	rows, err := r.q.Query(ctx, query, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory for user %d: %w", discordID, err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		var item models.InventoryItem
		err := rows.Scan(
			&item.DiscordID,
			&item.ItemName,
			&item.Quantity,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}

	return items, nil
}
