package repository

import (
	"context"
	"testing"

	"squarepicks/models"
	"squarepicks/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardRepository_GetByID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no board found", func(t *testing.T) {
		board, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, board)
	})

	t.Run("board found", func(t *testing.T) {
		testutil.SeedGame(t, testDB.DB, testutil.CreateTestGame("G1"))
		seeded := testutil.CreateTestBoard("B1", "G1", 500)
		testutil.SeedBoard(t, testDB.DB, seeded)

		board, err := repo.GetByID(ctx, "B1")
		require.NoError(t, err)
		require.NotNil(t, board)

		assert.Equal(t, "G1", board.GameID)
		assert.Equal(t, int64(500), board.AmountCents)
		assert.Equal(t, seeded.PotCents, board.PotCents)
		assert.Equal(t, seeded.PayoutCents, board.PayoutCents)
		assert.Equal(t, testutil.SequentialDigits(), board.HomeNumbers)
		assert.Equal(t, testutil.SequentialDigits(), board.AwayNumbers)
	})
}

func TestBoardRepository_SetWinner(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedGame(t, testDB.DB, testutil.CreateTestGame("G1"))
	testutil.SeedBoard(t, testDB.DB, testutil.CreateTestBoard("B1", "G1", 500))

	t.Run("no winner recorded yet", func(t *testing.T) {
		winner, err := repo.GetWinner(ctx, "B1", models.PeriodQ1)
		require.NoError(t, err)
		assert.Nil(t, winner)
	})

	t.Run("records winner", func(t *testing.T) {
		winningIndex := 37
		err := repo.SetWinner(ctx, &models.BoardWinner{
			BoardID:         "B1",
			Period:          models.PeriodQ1,
			Assigned:        true,
			WinningIndex:    &winningIndex,
			WinningValue:    "37",
			Paid:            true,
			PaidAmountCents: 10000,
		})
		require.NoError(t, err)

		winner, err := repo.GetWinner(ctx, "B1", models.PeriodQ1)
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.True(t, winner.Assigned)
		assert.True(t, winner.Paid)
		require.NotNil(t, winner.WinningIndex)
		assert.Equal(t, 37, *winner.WinningIndex)
		assert.Equal(t, "37", winner.WinningValue)
		assert.Equal(t, int64(10000), winner.PaidAmountCents)
		assert.False(t, winner.AssignedAt.IsZero())
	})

	t.Run("assigned winner cannot be overwritten", func(t *testing.T) {
		otherIndex := 99
		err := repo.SetWinner(ctx, &models.BoardWinner{
			BoardID:      "B1",
			Period:       models.PeriodQ1,
			Assigned:     true,
			WinningIndex: &otherIndex,
			WinningValue: "99",
		})
		assert.Error(t, err)

		winner, err := repo.GetWinner(ctx, "B1", models.PeriodQ1)
		require.NoError(t, err)
		assert.Equal(t, "37", winner.WinningValue)
	})

	t.Run("other periods are independent", func(t *testing.T) {
		err := repo.SetWinner(ctx, &models.BoardWinner{
			BoardID:      "B1",
			Period:       models.PeriodQ2,
			Assigned:     true,
			WinningValue: "50",
		})
		require.NoError(t, err)

		winner, err := repo.GetWinner(ctx, "B1", models.PeriodQ2)
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.Nil(t, winner.WinningIndex)
		assert.False(t, winner.Paid)
	})
}

func TestBoardRepository_AssignAxisNumbers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedGame(t, testDB.DB, testutil.CreateTestGame("G1"))
	open := testutil.CreateTestBoard("B1", "G1", 0)
	open.Status = models.BoardStatusOpen
	open.HomeNumbers = nil
	open.AwayNumbers = nil
	testutil.SeedBoard(t, testDB.DB, open)

	home := []int16{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	away := testutil.SequentialDigits()

	err := repo.AssignAxisNumbers(ctx, "B1", home, away)
	require.NoError(t, err)

	board, err := repo.GetByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, home, board.HomeNumbers)
	assert.Equal(t, away, board.AwayNumbers)
	assert.Equal(t, models.BoardStatusClosed, board.Status)

	// Assignment is one-shot
	err = repo.AssignAxisNumbers(ctx, "B1", away, home)
	assert.Error(t, err)
}

func TestBoardRepository_ListDuePeriods(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBoardRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedGame(t, testDB.DB, testutil.CreateTestGame("G1"))
	testutil.SeedBoard(t, testDB.DB, testutil.CreateTestBoard("B1", "G1", 100))

	// Open boards never become due
	openBoard := testutil.CreateTestBoard("B2", "G1", 100)
	openBoard.Status = models.BoardStatusOpen
	openBoard.HomeNumbers = nil
	openBoard.AwayNumbers = nil
	testutil.SeedBoard(t, testDB.DB, openBoard)

	due, err := repo.ListDuePeriods(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	testutil.SeedScore(t, testDB.DB, "G1", models.PeriodQ1, 14, 7)
	testutil.SeedScore(t, testDB.DB, "G1", models.PeriodQ2, 21, 10)

	due, err = repo.ListDuePeriods(ctx)
	require.NoError(t, err)
	require.Len(t, due, 2)
	for _, d := range due {
		assert.Equal(t, "B1", d.BoardID)
	}

	// Assigning one period removes it from the due set
	err = repo.SetWinner(ctx, &models.BoardWinner{
		BoardID:      "B1",
		Period:       models.PeriodQ1,
		Assigned:     true,
		WinningValue: "47",
	})
	require.NoError(t, err)

	due, err = repo.ListDuePeriods(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, models.PeriodQ2, due[0].Period)

	// Canceling the game drops its remaining periods from the due set
	gameRepo := NewGameRepository(testDB.DB)
	err = gameRepo.UpdateStatus(ctx, "G1", models.GameStatusCanceled)
	require.NoError(t, err)

	due, err = repo.ListDuePeriods(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)
}
