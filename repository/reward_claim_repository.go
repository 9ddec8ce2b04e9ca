package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"casino/database"
	"casino/models"
)

// RewardClaimRepository implements the RewardClaimRepository interface
type RewardClaimRepository struct {
	q queryable
}

// NewRewardClaimRepository creates a new reward claim repository
func NewRewardClaimRepository(db *database.DB) *RewardClaimRepository {
	return &RewardClaimRepository{q: db.Pool}
}

// newRewardClaimRepositoryWithTx creates a new reward claim repository with a transaction
func newRewardClaimRepositoryWithTx(tx queryable) *RewardClaimRepository {
	return &RewardClaimRepository{q: tx}
}

// GetLastClaim returns the most recent claim of a reward kind, nil when never claimed
func (r *RewardClaimRepository) GetLastClaim(ctx context.Context, discordID int64, kind models.RewardKind) (*models.RewardClaim, error) {
	query := `
		SELECT discord_id, reward_kind, claimed_at
		FROM reward_claims
		WHERE discord_id = $1 AND reward_kind = $2
	`

	var claim models.RewardClaim
	err := r.q.QueryRow(ctx, query, discordID, kind).Scan(
		&claim.DiscordID,
		&claim.RewardKind,
		&claim.ClaimedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s claim for user %d: %w", kind, discordID, err)
	}

	return &claim, nil
}

// Upsert records a claim, replacing any previous one for the same kind
func (r *RewardClaimRepository) Upsert(ctx context.Context, claim *models.RewardClaim) error {
	query := `
		INSERT INTO reward_claims (discord_id, reward_kind, claimed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id, reward_kind)
		DO UPDATE SET claimed_at = $3
	`

	if _, err := r.q.Exec(ctx, query, claim.DiscordID, claim.RewardKind, claim.ClaimedAt); err != nil {
		return fmt.Errorf("failed to upsert %s claim for user %d: %w", claim.RewardKind, claim.DiscordID, err)
	}

	return nil
}
