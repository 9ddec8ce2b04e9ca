package service

import (
	"context"
	"fmt"

	"casino/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, startingBalance int64) UserService {
	return &userService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

// GetOrCreateUser retrieves an existing user or creates a new one with the starting balance
func (s *userService) GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return user, nil
	}

	// Database primary key on discord_id prevents duplicate users
	user, err = uow.UserRepository().Create(ctx, discordID, username, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   0,
		BalanceAfter:    s.startingBalance,
		ChangeAmount:    s.startingBalance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"username": username,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Leaderboard returns the top users by balance
func (s *userService) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetUsersWithPositiveBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// Transfer moves tokens from sender to recipient
func (s *userService) Transfer(ctx context.Context, fromDiscordID, toDiscordID int64, amount int64) (*TransferResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidArgument)
	}
	if fromDiscordID == toDiscordID {
		return nil, fmt.Errorf("%w: cannot transfer to yourself", ErrInvalidArgument)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	fromUser, err := uow.UserRepository().GetByDiscordID(ctx, fromDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if fromUser == nil || fromUser.Balance < amount {
		return nil, fmt.Errorf("%w: need %d", ErrInsufficientFunds, amount)
	}

	toUser, err := uow.UserRepository().GetByDiscordID(ctx, toDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if toUser == nil {
		return nil, fmt.Errorf("%w: recipient not found", ErrInvalidArgument)
	}

	if err := uow.UserRepository().DeductBalance(ctx, fromDiscordID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct sender balance: %w", err)
	}
	if err := uow.UserRepository().AddBalance(ctx, toDiscordID, amount); err != nil {
		return nil, fmt.Errorf("failed to add recipient balance: %w", err)
	}

	fromHistory := &models.BalanceHistory{
		DiscordID:       fromDiscordID,
		BalanceBefore:   fromUser.Balance,
		BalanceAfter:    fromUser.Balance - amount,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"recipient_discord_id": toDiscordID,
			"transfer_amount":      amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, fromHistory); err != nil {
		return nil, fmt.Errorf("failed to record sender balance change: %w", err)
	}

	toHistory := &models.BalanceHistory{
		DiscordID:       toDiscordID,
		BalanceBefore:   toUser.Balance,
		BalanceAfter:    toUser.Balance + amount,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"sender_discord_id": fromDiscordID,
			"transfer_amount":   amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, toHistory); err != nil {
		return nil, fmt.Errorf("failed to record recipient balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &TransferResult{
		Amount:           amount,
		SenderBalance:    fromUser.Balance - amount,
		RecipientBalance: toUser.Balance + amount,
	}, nil
}
