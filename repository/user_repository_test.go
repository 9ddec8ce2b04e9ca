package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"casino/events"
	"casino/models"
	"casino/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing user returns nil", func(t *testing.T) {
		user, err := repo.GetByDiscordID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("create and retrieve", func(t *testing.T) {
		created, err := repo.Create(ctx, 100, "alice", 500)
		require.NoError(t, err)
		assert.Equal(t, int64(100), created.DiscordID)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, int64(500), created.Balance)
		assert.Equal(t, int64(0), created.Score)

		user, err := repo.GetByDiscordID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(500), user.Balance)
	})
}

func TestUserRepository_BalanceOperations(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 200, "bob", 1000)
	require.NoError(t, err)

	t.Run("add balance", func(t *testing.T) {
		err := repo.AddBalance(ctx, 200, 250)
		require.NoError(t, err)

		user, err := repo.GetByDiscordID(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(1250), user.Balance)
	})

	t.Run("deduct balance", func(t *testing.T) {
		err := repo.DeductBalance(ctx, 200, 1000)
		require.NoError(t, err)

		user, err := repo.GetByDiscordID(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(250), user.Balance)
	})

	t.Run("deduct more than balance fails without change", func(t *testing.T) {
		err := repo.DeductBalance(ctx, 200, 10000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient balance")

		user, err := repo.GetByDiscordID(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(250), user.Balance)
	})

	t.Run("add score", func(t *testing.T) {
		err := repo.AddScore(ctx, 200, 1900)
		require.NoError(t, err)

		user, err := repo.GetByDiscordID(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(1900), user.Score)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		err := repo.AddBalance(ctx, 999, 100)
		require.Error(t, err)
	})
}

func TestUserRepository_GetUsersWithPositiveBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "rich", 5000)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 2, "poor", 0)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 3, "middle", 1200)
	require.NoError(t, err)

	users, err := repo.GetUsersWithPositiveBalance(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "rich", users[0].Username)
	assert.Equal(t, "middle", users[1].Username)
}

func TestBalanceHistoryRepository_RecordAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	historyRepo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 300, "carol", 100000)
	require.NoError(t, err)

	history := testutil.CreateTestBalanceHistory(300, models.TransactionTypeSlotsWager)
	err = historyRepo.Record(ctx, history)
	require.NoError(t, err)
	assert.NotZero(t, history.ID)
	assert.False(t, history.CreatedAt.IsZero())

	entries, err := historyRepo.GetByUser(ctx, 300, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TransactionTypeSlotsWager, entries[0].TransactionType)
	assert.Equal(t, int64(-10000), entries[0].ChangeAmount)
	assert.Equal(t, true, entries[0].TransactionMetadata["test"])
}

func TestInventoryRepository_AddItem(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	invRepo := NewInventoryRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 400, "dave", 0)
	require.NoError(t, err)

	t.Run("first purchase creates row", func(t *testing.T) {
		err := invRepo.AddItem(ctx, 400, "rock", 1)
		require.NoError(t, err)

		items, err := invRepo.GetByUser(ctx, 400)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "rock", items[0].ItemName)
		assert.Equal(t, int64(1), items[0].Quantity)
	})

	t.Run("repeat purchase increments quantity", func(t *testing.T) {
		err := invRepo.AddItem(ctx, 400, "rock", 2)
		require.NoError(t, err)

		items, err := invRepo.GetByUser(ctx, 400)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(3), items[0].Quantity)
	})

	t.Run("items are sorted by name", func(t *testing.T) {
		err := invRepo.AddItem(ctx, 400, "paperclip", 1)
		require.NoError(t, err)

		items, err := invRepo.GetByUser(ctx, 400)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "paperclip", items[0].ItemName)
		assert.Equal(t, "rock", items[1].ItemName)
	})
}

func TestRewardClaimRepository_Upsert(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	claimRepo := NewRewardClaimRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 500, "erin", 0)
	require.NoError(t, err)

	t.Run("never claimed returns nil", func(t *testing.T) {
		claim, err := claimRepo.GetLastClaim(ctx, 500, models.RewardKindDaily)
		require.NoError(t, err)
		assert.Nil(t, claim)
	})

	t.Run("claim then replace", func(t *testing.T) {
		first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		err := claimRepo.Upsert(ctx, testutil.CreateTestRewardClaim(500, models.RewardKindDaily, first))
		require.NoError(t, err)

		claim, err := claimRepo.GetLastClaim(ctx, 500, models.RewardKindDaily)
		require.NoError(t, err)
		require.NotNil(t, claim)
		assert.True(t, claim.ClaimedAt.Equal(first))

		second := first.Add(25 * time.Hour)
		err = claimRepo.Upsert(ctx, testutil.CreateTestRewardClaim(500, models.RewardKindDaily, second))
		require.NoError(t, err)

		claim, err = claimRepo.GetLastClaim(ctx, 500, models.RewardKindDaily)
		require.NoError(t, err)
		require.NotNil(t, claim)
		assert.True(t, claim.ClaimedAt.Equal(second))
	})

	t.Run("kinds are independent", func(t *testing.T) {
		claim, err := claimRepo.GetLastClaim(ctx, 500, models.RewardKindHourly)
		require.NoError(t, err)
		assert.Nil(t, claim)
	})
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	bus := events.NewBus()
	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	seed := NewUserRepository(testDB.DB)
	_, err := seed.Create(ctx, 600, "frank", 1000)
	require.NoError(t, err)

	t.Run("commit persists changes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		err := uow.UserRepository().DeductBalance(ctx, 600, 400)
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		user, err := seed.GetByDiscordID(ctx, 600)
		require.NoError(t, err)
		assert.Equal(t, int64(600), user.Balance)
	})

	t.Run("rollback discards changes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		err := uow.UserRepository().DeductBalance(ctx, 600, 500)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback())

		user, err := seed.GetByDiscordID(ctx, 600)
		require.NoError(t, err)
		assert.Equal(t, int64(600), user.Balance)
	})
}

func TestWithTransaction(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewUserRepository(testDB.DB)
	_, err := repo.Create(ctx, 700, "grace", 1000)
	require.NoError(t, err)

	t.Run("commits on success", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			return newUserRepositoryWithTx(tx).AddBalance(ctx, 700, 500)
		})
		require.NoError(t, err)

		user, err := repo.GetByDiscordID(ctx, 700)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), user.Balance)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			if err := newUserRepositoryWithTx(tx).AddBalance(ctx, 700, 500); err != nil {
				return err
			}
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)

		user, err := repo.GetByDiscordID(ctx, 700)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), user.Balance)
	})
}
