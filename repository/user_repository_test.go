package repository

import (
	"context"
	"testing"

	"squarepicks/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Balances(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no user found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("create and get", func(t *testing.T) {
		created, err := repo.Create(ctx, "u1", "Alice", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), created.BalanceCents)

		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Alice", user.DisplayName)
		assert.Equal(t, int64(1000), user.BalanceCents)
	})

	t.Run("add balance", func(t *testing.T) {
		err := repo.AddBalance(ctx, "u1", 2500)
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(3500), user.BalanceCents)
	})

	t.Run("deduct balance", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "u1", 3000)
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(500), user.BalanceCents)
	})

	t.Run("deduct rejects insufficient balance", func(t *testing.T) {
		err := repo.DeductBalance(ctx, "u1", 501)
		assert.Error(t, err)

		// Balance untouched
		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(500), user.BalanceCents)
	})

	t.Run("add balance for unknown user fails", func(t *testing.T) {
		err := repo.AddBalance(ctx, "missing", 100)
		assert.Error(t, err)
	})
}
