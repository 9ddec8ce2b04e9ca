package models

import (
	"time"
)

// User represents a Discord user with a token balance
type User struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	Balance   int64     `db:"balance"`
	Score     int64     `db:"score"` // lifetime net winnings
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
