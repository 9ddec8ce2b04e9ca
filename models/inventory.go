package models

import "time"

// InventoryItem represents one owned item stack in a user's inventory
type InventoryItem struct {
	DiscordID int64     `db:"discord_id"`
	ItemName  string    `db:"item_name"`
	Quantity  int64     `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ShopItem represents a purchasable catalog entry
type ShopItem struct {
	Name  string
	Price int64
}
