package service

import (
	"context"
	"errors"
	"testing"

	"squarepicks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reconcilerMocks struct {
	factory       *MockUnitOfWorkFactory
	uow           *MockUnitOfWork
	gameRepo      *MockGameRepository
	boardRepo     *MockBoardRepository
	entryRepo     *MockEntryRepository
	userRepo      *MockUserRepository
	ledgerRepo    *MockLedgerRepository
	notifRepo     *MockNotificationRepository
	winRecordRepo *MockWinRecordRepository
	summaryRepo   *MockWinnerSummaryRepository
	publisher     *MockEventPublisher
}

func setupReconcilerMocks() (ReconcilerService, *reconcilerMocks) {
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

	return NewReconcilerService(m.factory), m
}

func identityBoard(id, gameID string, payoutCents int64) *models.Board {
	return &models.Board{
		ID:          id,
		GameID:      gameID,
		PotCents:    payoutCents * 5,
		PayoutCents: payoutCents,
		Status:      models.BoardStatusClosed,
		HomeNumbers: []int16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		AwayNumbers: []int16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
}

func TestReconcilePeriod_SingleWinner(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	board := identityBoard("B1", "G1", 2000)
	game := &models.Game{ID: "G1", Status: models.GameStatusInProgress}
	// Away 14, home 21 -> winning value "41", identity axes put it at index 41
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ2, HomeScore: 21, AwayScore: 14}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(game, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ2).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodQ2).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)

	m.entryRepo.On("GetByBoardAndSquareValue", ctx, "B1", "41").Return([]*models.Entry{
		{ID: 1, BoardID: "B1", UserID: "u1", GridIndex: 41, SquareValue: "41"},
	}, nil)

	m.userRepo.On("GetByID", ctx, "u1").Return(&models.User{ID: "u1", BalanceCents: 500}, nil)
	m.userRepo.On("AddBalance", ctx, "u1", int64(2000)).Return(nil)
	m.ledgerRepo.On("Create", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == "u1" &&
			e.EntryType == models.LedgerEntryTypeWinnings &&
			e.AmountCents == 2000 &&
			e.Period != nil && *e.Period == models.PeriodQ2
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.LedgerEntry).ID = 7
	})
	m.notifRepo.On("Create", ctx, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == "u1" &&
			n.Kind == models.NotificationKindWinnings &&
			n.LedgerEntryID != nil && *n.LedgerEntryID == 7
	})).Return(nil)

	m.winRecordRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.WinRecord) bool {
		return r.BoardID == "B1" && r.Period == models.PeriodQ2 &&
			r.UserID == "u1" && r.GridIndex == 41 && r.AmountCents == 2000
	})).Return(nil)
	m.summaryRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.WinnerSummary) bool {
		return s.BoardID == "B1" && s.WinnerCount == 1 &&
			s.WinningValue == "41" &&
			s.WinningIndex != nil && *s.WinningIndex == 41
	})).Return(nil)
	m.boardRepo.On("SetWinner", ctx, mock.MatchedBy(func(w *models.BoardWinner) bool {
		return w.Assigned && w.Paid &&
			w.PaidAmountCents == 2000 && w.WinningValue == "41"
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ2)
	require.NoError(t, err)
	assert.Equal(t, "41", result.WinningValue)
	assert.Equal(t, 1, result.WinnersPaid)
	assert.Equal(t, int64(2000), result.PerWinnerCents)
	assert.False(t, result.AlreadyAssigned)
	require.NotNil(t, result.WinningIndex)
	assert.Equal(t, 41, *result.WinningIndex)

	m.uow.AssertExpectations(t)
	m.boardRepo.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
	m.ledgerRepo.AssertExpectations(t)
	m.winRecordRepo.AssertExpectations(t)
	m.summaryRepo.AssertExpectations(t)
}

func TestReconcilePeriod_SplitsEquallyBetweenDistinctUsers(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	board := identityBoard("B1", "G1", 10000)
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodFinal, HomeScore: 30, AwayScore: 30}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodFinal).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodFinal).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)

	// Two users share winning value "00"; an unclaimed square cannot appear here
	m.entryRepo.On("GetByBoardAndSquareValue", ctx, "B1", "00").Return([]*models.Entry{
		{ID: 1, BoardID: "B1", UserID: "alice", GridIndex: 0, SquareValue: "00"},
		{ID: 2, BoardID: "B1", UserID: "bob", GridIndex: 50, SquareValue: "00"},
	}, nil)

	for _, userID := range []string{"alice", "bob"} {
		m.userRepo.On("GetByID", ctx, userID).Return(&models.User{ID: userID}, nil)
		m.userRepo.On("AddBalance", ctx, userID, int64(5000)).Return(nil)
	}
	m.ledgerRepo.On("Create", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(nil).Times(2)
	m.notifRepo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Return(nil).Times(2)
	m.winRecordRepo.On("Upsert", ctx, mock.AnythingOfType("*models.WinRecord")).Return(nil).Times(2)
	m.summaryRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.WinnerSummary) bool {
		return s.WinnerCount == 2
	})).Return(nil)
	m.boardRepo.On("SetWinner", ctx, mock.AnythingOfType("*models.BoardWinner")).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodFinal)
	require.NoError(t, err)
	assert.Equal(t, 2, result.WinnersPaid)
	assert.Equal(t, int64(5000), result.PerWinnerCents)

	m.userRepo.AssertExpectations(t)
	m.ledgerRepo.AssertExpectations(t)
}

func TestReconcilePeriod_SameUserTwoEntriesPaidOnce(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	board := identityBoard("B1", "G1", 8000)
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ1, HomeScore: 7, AwayScore: 3}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ1).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodQ1).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)

	// Duplicate square values cannot normally exist on one board, but a user
	// holding both grid cells that map to "37" must still be paid only once
	m.entryRepo.On("GetByBoardAndSquareValue", ctx, "B1", "37").Return([]*models.Entry{
		{ID: 1, BoardID: "B1", UserID: "carol", GridIndex: 37, SquareValue: "37"},
		{ID: 2, BoardID: "B1", UserID: "carol", GridIndex: 73, SquareValue: "37"},
	}, nil)

	m.userRepo.On("GetByID", ctx, "carol").Return(&models.User{ID: "carol"}, nil).Once()
	// Full payout, not split: one distinct user
	m.userRepo.On("AddBalance", ctx, "carol", int64(8000)).Return(nil).Once()
	m.ledgerRepo.On("Create", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(nil).Once()
	m.notifRepo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Return(nil).Once()
	// One win record per winning entry
	m.winRecordRepo.On("Upsert", ctx, mock.AnythingOfType("*models.WinRecord")).Return(nil).Times(2)
	m.summaryRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.WinnerSummary) bool {
		return s.WinnerCount == 1
	})).Return(nil)
	m.boardRepo.On("SetWinner", ctx, mock.AnythingOfType("*models.BoardWinner")).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WinnersPaid)
	assert.Equal(t, int64(8000), result.PerWinnerCents)

	m.userRepo.AssertExpectations(t)
	m.winRecordRepo.AssertExpectations(t)
}

func TestReconcilePeriod_NoWinnerStillAssigns(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	board := identityBoard("B1", "G1", 2000)
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ3, HomeScore: 9, AwayScore: 2}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ3).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodQ3).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)
	m.entryRepo.On("GetByBoardAndSquareValue", ctx, "B1", "29").Return(nil, nil)

	m.summaryRepo.On("Upsert", ctx, mock.MatchedBy(func(s *models.WinnerSummary) bool {
		return s.WinnerCount == 0 && s.WinningIndex == nil && s.WinningValue == "29"
	})).Return(nil)
	m.boardRepo.On("SetWinner", ctx, mock.MatchedBy(func(w *models.BoardWinner) bool {
		return w.Assigned && !w.Paid && w.PaidAmountCents == 0 && w.WinningIndex == nil
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ3)
	require.NoError(t, err)
	assert.Equal(t, 0, result.WinnersPaid)
	assert.Nil(t, result.WinningIndex)
	assert.Equal(t, "29", result.WinningValue)

	// No balance or ledger writes on a no-winner period
	m.userRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	m.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.boardRepo.AssertExpectations(t)
	m.summaryRepo.AssertExpectations(t)
}

func TestReconcilePeriod_AlreadyAssignedIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	winningIndex := 41
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ2, HomeScore: 21, AwayScore: 14}
	existing := &models.BoardWinner{
		BoardID:         "B1",
		Period:          models.PeriodQ2,
		Assigned:        true,
		WinningIndex:    &winningIndex,
		WinningValue:    "41",
		Paid:            true,
		PaidAmountCents: 2000,
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ2).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodQ2).Return(existing, nil)
	m.summaryRepo.On("Get", ctx, "B1", models.PeriodQ2).Return(&models.WinnerSummary{
		BoardID:      "B1",
		Period:       models.PeriodQ2,
		WinningIndex: &winningIndex,
		WinningValue: "41",
		WinnerCount:  1,
	}, nil)

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ2)
	require.NoError(t, err)
	assert.True(t, result.AlreadyAssigned)
	assert.Equal(t, "41", result.WinningValue)
	assert.Equal(t, 1, result.WinnersPaid)
	assert.Equal(t, int64(2000), result.PerWinnerCents)

	// The pre-check short-circuits before the row lock; nothing is written
	m.boardRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	m.boardRepo.AssertNotCalled(t, "SetWinner", mock.Anything, mock.Anything)
	m.userRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestReconcilePeriod_ScoresNotReady(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ1).Return(nil, nil)

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrScoresNotReady)
}

func TestReconcilePeriod_GameNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	result, err := svc.ReconcilePeriod(ctx, "missing", "B1", models.PeriodQ1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestReconcilePeriod_CanceledGame(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1", Status: models.GameStatusCanceled}, nil)

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ1)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "canceled")
	m.gameRepo.AssertNotCalled(t, "GetScore", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcilePeriod_BoardNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ1, HomeScore: 7, AwayScore: 0}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ1).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "missing", models.PeriodQ1).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "missing").Return(nil, nil)

	result, err := svc.ReconcilePeriod(ctx, "G1", "missing", models.PeriodQ1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestReconcilePeriod_InvalidPeriod(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupReconcilerMocks()

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.Period("q5"))
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestReconcilePeriod_CommitFailureIsTransactionError(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	board := identityBoard("B1", "G1", 2000)
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ3, HomeScore: 9, AwayScore: 2}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(errors.New("connection reset"))
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ3).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodQ3).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)
	m.entryRepo.On("GetByBoardAndSquareValue", ctx, "B1", "29").Return(nil, nil)
	m.summaryRepo.On("Upsert", ctx, mock.AnythingOfType("*models.WinnerSummary")).Return(nil)
	m.boardRepo.On("SetWinner", ctx, mock.AnythingOfType("*models.BoardWinner")).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ3)
	assert.Nil(t, result)

	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Contains(t, txErr.Error(), "reconciliation transaction failed")
}

func TestReconcilePeriod_SetWinnerFailureIsTransactionError(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	board := identityBoard("B1", "G1", 2000)
	score := &models.PeriodScore{GameID: "G1", Period: models.PeriodQ3, HomeScore: 9, AwayScore: 2}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.gameRepo.On("GetByID", ctx, "G1").Return(&models.Game{ID: "G1"}, nil)
	m.gameRepo.On("GetScore", ctx, "G1", models.PeriodQ3).Return(score, nil)
	m.boardRepo.On("GetWinner", ctx, "B1", models.PeriodQ3).Return(nil, nil)
	m.boardRepo.On("GetByIDForUpdate", ctx, "B1").Return(board, nil)
	m.entryRepo.On("GetByBoardAndSquareValue", ctx, "B1", "29").Return(nil, nil)
	m.summaryRepo.On("Upsert", ctx, mock.AnythingOfType("*models.WinnerSummary")).Return(nil)
	m.boardRepo.On("SetWinner", ctx, mock.AnythingOfType("*models.BoardWinner")).Return(errors.New("constraint violation"))

	result, err := svc.ReconcilePeriod(ctx, "G1", "B1", models.PeriodQ3)
	assert.Nil(t, result)

	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestListDue(t *testing.T) {
	ctx := context.Background()
	svc, m := setupReconcilerMocks()

	due := []*models.DuePeriod{
		{BoardID: "B1", GameID: "G1", Period: models.PeriodQ1},
		{BoardID: "B2", GameID: "G1", Period: models.PeriodQ1},
	}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.boardRepo.On("ListDuePeriods", ctx).Return(due, nil)

	got, err := svc.ListDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, due, got)
}
