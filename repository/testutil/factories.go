package testutil

import (
	"time"

	"casino/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(discordID int64, username string) *models.User {
	now := time.Now()
	return &models.User{
		DiscordID: discordID,
		Username:  username,
		Balance:   100000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(discordID int64, username string, balance int64) *models.User {
	user := CreateTestUser(discordID, username)
	user.Balance = balance
	return user
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   100000,
		BalanceAfter:    90000,
		ChangeAmount:    -10000,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestRewardClaim creates a test reward claim at a specific time
func CreateTestRewardClaim(discordID int64, kind models.RewardKind, claimedAt time.Time) *models.RewardClaim {
	return &models.RewardClaim{
		DiscordID:  discordID,
		RewardKind: kind,
		ClaimedAt:  claimedAt,
	}
}
