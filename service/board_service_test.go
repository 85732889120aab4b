package service

import (
	"context"
	"testing"

	"squarepicks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupBoardMocks() (BoardService, *reconcilerMocks) {
	m := &reconcilerMocks{
		factory:       new(MockUnitOfWorkFactory),
		uow:           new(MockUnitOfWork),
		gameRepo:      new(MockGameRepository),
		boardRepo:     new(MockBoardRepository),
		entryRepo:     new(MockEntryRepository),
		userRepo:      new(MockUserRepository),
		ledgerRepo:    new(MockLedgerRepository),
		notifRepo:     new(MockNotificationRepository),
		winRecordRepo: new(MockWinRecordRepository),
		summaryRepo:   new(MockWinnerSummaryRepository),
		publisher:     new(MockEventPublisher),
	}

	m.uow.SetRepositories(m.gameRepo, m.boardRepo, m.entryRepo, m.userRepo,
		m.ledgerRepo, m.notifRepo, m.winRecordRepo, m.summaryRepo)
	m.uow.SetEventBus(m.publisher)
	m.factory.On("Create").Return(m.uow)

	return NewBoardService(m.factory), m
}

func TestCreateBoard(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.boardRepo.On("Create", ctx, mock.MatchedBy(func(b *models.Board) bool {
		return b.ID == "B1" && b.GameID == "G1" &&
			b.AmountCents == 500 &&
			b.PotCents == 50000 &&
			b.PayoutCents == 10000 &&
			b.Status == models.BoardStatusOpen
	})).Return(nil)

	board, err := svc.CreateBoard(ctx, "B1", "G1", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), board.PayoutCents)
	m.boardRepo.AssertExpectations(t)
}

func TestCreateBoard_GameNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.gameRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	board, err := svc.CreateBoard(ctx, "B1", "missing", 500)
	assert.Nil(t, board)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestClaimSquare_PaidBoardDeductsEntryFee(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	board := &models.Board{
		ID:          "B1",
		GameID:      "G1",
		AmountCents: 500,
		Status:      models.BoardStatusOpen,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)
	m.userRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", BalanceCents: 1000}, nil)
	m.userRepo.On("DeductBalance", ctx, "u1", int64(500)).Return(nil)
	m.ledgerRepo.On("Create", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.EntryType == models.LedgerEntryTypeEntryFee && e.AmountCents == -500
	})).Return(nil)
	m.entryRepo.On("Create", ctx, mock.MatchedBy(func(e *models.Entry) bool {
		// Axis numbers not yet assigned, so no square value
		return e.BoardID == "B1" && e.UserID == "u1" && e.GridIndex == 42 && e.SquareValue == ""
	})).Return(nil)

	entry, err := svc.ClaimSquare(ctx, "B1", "u1", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, entry.GridIndex)
	m.userRepo.AssertExpectations(t)
	m.ledgerRepo.AssertExpectations(t)
}

func TestClaimSquare_FreeBoardSkipsLedger(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	board := &models.Board{ID: "B1", GameID: "G1", AmountCents: 0, Status: models.BoardStatusOpen}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)
	m.userRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1"}, nil)
	m.entryRepo.On("Create", ctx, mock.AnythingOfType("*models.Entry")).Return(nil)

	_, err := svc.ClaimSquare(ctx, "B1", "u1", 0)
	require.NoError(t, err)

	m.userRepo.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything)
	m.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimSquare_RejectsClosedBoardAndBadIndex(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	closed := &models.Board{ID: "B1", Status: models.BoardStatusClosed}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(closed, nil)

	_, err := svc.ClaimSquare(ctx, "B1", "u1", 5)
	assert.Error(t, err)

	_, err = svc.ClaimSquare(ctx, "B1", "u1", 100)
	assert.Error(t, err)

	_, err = svc.ClaimSquare(ctx, "B1", "u1", -1)
	assert.Error(t, err)
}

func TestAssignAxisNumbers(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	board := &models.Board{ID: "B1", GameID: "G1", Status: models.BoardStatusOpen}
	entries := []*models.Entry{
		{ID: 1, BoardID: "B1", UserID: "u1", GridIndex: 0},
		{ID: 2, BoardID: "B1", UserID: "u2", GridIndex: 37},
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)

	var homeNumbers, awayNumbers []int16
	m.boardRepo.On("AssignAxisNumbers", ctx, "B1",
		mock.AnythingOfType("[]int16"), mock.AnythingOfType("[]int16")).
		Return(nil).Run(func(args mock.Arguments) {
			homeNumbers = args.Get(2).([]int16)
			awayNumbers = args.Get(3).([]int16)
		})
	m.entryRepo.On("GetByBoard", ctx, "B1").Return(entries, nil)
	m.entryRepo.On("UpdateSquareValues", ctx, "B1", mock.MatchedBy(func(values map[int]string) bool {
		return len(values) == 2
	})).Return(nil).Run(func(args mock.Arguments) {
		values := args.Get(2).(map[int]string)
		// Stamped values must agree with the assigned permutations
		for _, entry := range entries {
			expected := models.SquareValue(
				int(awayNumbers[models.GridRow(entry.GridIndex)]),
				int(homeNumbers[models.GridColumn(entry.GridIndex)]),
			)
			assert.Equal(t, expected, values[entry.GridIndex])
		}
	})

	result, err := svc.AssignAxisNumbers(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, models.BoardStatusClosed, result.Status)

	// Each axis must be a permutation of the digits 0-9
	for _, axis := range [][]int16{homeNumbers, awayNumbers} {
		require.Len(t, axis, 10)
		seen := make(map[int16]bool)
		for _, d := range axis {
			assert.False(t, seen[d])
			seen[d] = true
			assert.GreaterOrEqual(t, d, int16(0))
			assert.LessOrEqual(t, d, int16(9))
		}
	}

	m.entryRepo.AssertExpectations(t)
}

func TestAssignAxisNumbers_AlreadyAssigned(t *testing.T) {
	ctx := context.Background()
	svc, m := setupBoardMocks()

	board := &models.Board{
		ID:          "B1",
		Status:      models.BoardStatusClosed,
		HomeNumbers: []int16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		AwayNumbers: []int16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)

	result, err := svc.AssignAxisNumbers(ctx, "B1")
	assert.Nil(t, result)
	assert.Error(t, err)
	m.boardRepo.AssertNotCalled(t, "AssignAxisNumbers",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
