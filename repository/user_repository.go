package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"casino/database"
	"casino/models"
)

// queryable covers the pgx surface the repositories need, satisfied by
// both *pgxpool.Pool and pgx.Tx.
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT discord_id, username, balance, score, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.Score,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// Create creates a new user with the initial balance
func (r *UserRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, error) {
	query := `
		INSERT INTO users (discord_id, username, balance)
		VALUES ($1, $2, $3)
		RETURNING discord_id, username, balance, score, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID, username, initialBalance).Scan(
		&user.DiscordID,
		&user.Username,
		&user.Balance,
		&user.Score,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user with discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, discordID)
	if err != nil {
		return fmt.Errorf("failed to add balance for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user with discord ID %d not found", discordID)
	}

	return nil
}

// DeductBalance deducts from a user's balance atomically, failing if insufficient funds
func (r *UserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance - $1, updated_at = NOW()
		WHERE discord_id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, discordID)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		user, err := r.GetByDiscordID(ctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user with discord ID %d not found", discordID)
		}
		return fmt.Errorf("insufficient balance: have %d, need %d", user.Balance, amount)
	}

	return nil
}

// AddScore adjusts a user's lifetime net-winnings score
func (r *UserRepository) AddScore(ctx context.Context, discordID int64, delta int64) error {
	query := `
		UPDATE users
		SET score = score + $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, delta, discordID)
	if err != nil {
		return fmt.Errorf("failed to add score for user %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user with discord ID %d not found", discordID)
	}

	return nil
}

// GetUsersWithPositiveBalance returns all users with balance > 0, richest first
func (r *UserRepository) GetUsersWithPositiveBalance(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT discord_id, username, balance, score, created_at, updated_at
		FROM users
		WHERE balance > 0
		ORDER BY balance DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with positive balance: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.DiscordID,
			&user.Username,
			&user.Balance,
			&user.Score,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
