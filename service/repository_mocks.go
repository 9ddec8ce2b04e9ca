package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"casino/events"
	"casino/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, error) {
	args := m.Called(ctx, discordID, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, discordID int64, amount int64) error {
	args := m.Called(ctx, discordID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) AddScore(ctx context.Context, discordID int64, delta int64) error {
	args := m.Called(ctx, discordID, delta)
	return args.Error(0)
}

func (m *MockUserRepository) GetUsersWithPositiveBalance(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) AddItem(ctx context.Context, discordID int64, itemName string, quantity int64) error {
	args := m.Called(ctx, discordID, itemName, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByUser(ctx context.Context, discordID int64) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

// MockRewardClaimRepository is a mock implementation of RewardClaimRepository
type MockRewardClaimRepository struct {
	mock.Mock
}

func (m *MockRewardClaimRepository) GetLastClaim(ctx context.Context, discordID int64, kind models.RewardKind) (*models.RewardClaim, error) {
	args := m.Called(ctx, discordID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardClaim), args.Error(1)
}

func (m *MockRewardClaimRepository) Upsert(ctx context.Context, claim *models.RewardClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// recordingPublisher collects published events without expectations
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.events = append(p.events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories
// are attached with SetRepositories; Begin/Commit/Rollback go through
// testify expectations.
type MockUnitOfWork struct {
	mock.Mock

	userRepo        UserRepository
	historyRepo     BalanceHistoryRepository
	inventoryRepo   InventoryRepository
	rewardClaimRepo RewardClaimRepository
	publisher       EventPublisher
}

// SetRepositories attaches the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, historyRepo BalanceHistoryRepository, inventoryRepo InventoryRepository, rewardClaimRepo RewardClaimRepository) {
	m.userRepo = userRepo
	m.historyRepo = historyRepo
	m.inventoryRepo = inventoryRepo
	m.rewardClaimRepo = rewardClaimRepo
	m.publisher = &recordingPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) InventoryRepository() InventoryRepository {
	return m.inventoryRepo
}

func (m *MockUnitOfWork) RewardClaimRepository() RewardClaimRepository {
	return m.rewardClaimRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
