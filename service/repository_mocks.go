package service

import (
	"context"

	"squarepicks/events"
	"squarepicks/models"

	"github.com/stretchr/testify/mock"
)

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) UpdateStatus(ctx context.Context, id string, status models.GameStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockGameRepository) GetScore(ctx context.Context, gameID string, period models.Period) (*models.PeriodScore, error) {
	args := m.Called(ctx, gameID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PeriodScore), args.Error(1)
}

func (m *MockGameRepository) UpsertScore(ctx context.Context, score *models.PeriodScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Board), args.Error(1)
}

func (m *MockBoardRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Board, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Board), args.Error(1)
}

func (m *MockBoardRepository) Create(ctx context.Context, board *models.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) AssignAxisNumbers(ctx context.Context, id string, homeNumbers, awayNumbers []int16) error {
	args := m.Called(ctx, id, homeNumbers, awayNumbers)
	return args.Error(0)
}

func (m *MockBoardRepository) GetWinner(ctx context.Context, boardID string, period models.Period) (*models.BoardWinner, error) {
	args := m.Called(ctx, boardID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BoardWinner), args.Error(1)
}

func (m *MockBoardRepository) SetWinner(ctx context.Context, winner *models.BoardWinner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

func (m *MockBoardRepository) ListDuePeriods(ctx context.Context) ([]*models.DuePeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DuePeriod), args.Error(1)
}

// MockEntryRepository is a mock implementation of EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByBoard(ctx context.Context, boardID string) ([]*models.Entry, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetByBoardAndSquareValue(ctx context.Context, boardID, value string) ([]*models.Entry, error) {
	args := m.Called(ctx, boardID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) UpdateSquareValues(ctx context.Context, boardID string, values map[int]string) error {
	args := m.Called(ctx, boardID, values)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, id, displayName string, initialBalanceCents int64) (*models.User, error) {
	args := m.Called(ctx, id, displayName, initialBalanceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, userID string, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, userID string, amountCents int64) error {
	args := m.Called(ctx, userID, amountCents)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetByBoardAndPeriod(ctx context.Context, boardID string, period models.Period) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, boardID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

// MockWinRecordRepository is a mock implementation of WinRecordRepository
type MockWinRecordRepository struct {
	mock.Mock
}

func (m *MockWinRecordRepository) Upsert(ctx context.Context, record *models.WinRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockWinRecordRepository) GetByUser(ctx context.Context, userID string) ([]*models.WinRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinRecord), args.Error(1)
}

func (m *MockWinRecordRepository) GetByBoardAndPeriod(ctx context.Context, boardID string, period models.Period) ([]*models.WinRecord, error) {
	args := m.Called(ctx, boardID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinRecord), args.Error(1)
}

// MockWinnerSummaryRepository is a mock implementation of WinnerSummaryRepository
type MockWinnerSummaryRepository struct {
	mock.Mock
}

func (m *MockWinnerSummaryRepository) Upsert(ctx context.Context, summary *models.WinnerSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockWinnerSummaryRepository) Get(ctx context.Context, boardID string, period models.Period) (*models.WinnerSummary, error) {
	args := m.Called(ctx, boardID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WinnerSummary), args.Error(1)
}

func (m *MockWinnerSummaryRepository) GetByBoard(ctx context.Context, boardID string) ([]*models.WinnerSummary, error) {
	args := m.Called(ctx, boardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinnerSummary), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever was installed with SetRepositories, so getter calls need no
// expectations.
type MockUnitOfWork struct {
	mock.Mock
	gameRepo          GameRepository
	boardRepo         BoardRepository
	entryRepo         EntryRepository
	userRepo          UserRepository
	ledgerRepo        LedgerRepository
	notificationRepo  NotificationRepository
	winRecordRepo     WinRecordRepository
	winnerSummaryRepo WinnerSummaryRepository
	eventBus          EventPublisher
}

// SetRepositories installs the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(
	gameRepo GameRepository,
	boardRepo BoardRepository,
	entryRepo EntryRepository,
	userRepo UserRepository,
	ledgerRepo LedgerRepository,
	notificationRepo NotificationRepository,
	winRecordRepo WinRecordRepository,
	winnerSummaryRepo WinnerSummaryRepository,
) {
	m.gameRepo = gameRepo
	m.boardRepo = boardRepo
	m.entryRepo = entryRepo
	m.userRepo = userRepo
	m.ledgerRepo = ledgerRepo
	m.notificationRepo = notificationRepo
	m.winRecordRepo = winRecordRepo
	m.winnerSummaryRepo = winnerSummaryRepo
}

// SetEventBus installs the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
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

func (m *MockUnitOfWork) GameRepository() GameRepository {
	return m.gameRepo
}

func (m *MockUnitOfWork) BoardRepository() BoardRepository {
	return m.boardRepo
}

func (m *MockUnitOfWork) EntryRepository() EntryRepository {
	return m.entryRepo
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) NotificationRepository() NotificationRepository {
	return m.notificationRepo
}

func (m *MockUnitOfWork) WinRecordRepository() WinRecordRepository {
	return m.winRecordRepo
}

func (m *MockUnitOfWork) WinnerSummaryRepository() WinnerSummaryRepository {
	return m.winnerSummaryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
