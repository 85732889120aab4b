package service

import (
	"context"

	"squarepicks/events"
	"squarepicks/models"
)

// GameRepository defines the interface for game data access. Games and their
// scores are written by the score-ingestion side and read-only for the
// reconciler.
type GameRepository interface {
	// GetByID retrieves a game by its ID, nil if not found
	GetByID(ctx context.Context, id string) (*models.Game, error)

	// Create creates a new game
	Create(ctx context.Context, game *models.Game) error

	// UpdateStatus updates a game's lifecycle status
	UpdateStatus(ctx context.Context, id string, status models.GameStatus) error

	// GetScore retrieves the period-ending score pair for a period, nil if
	// the period has not ended yet
	GetScore(ctx context.Context, gameID string, period models.Period) (*models.PeriodScore, error)

	// UpsertScore records a period-ending score pair
	UpsertScore(ctx context.Context, score *models.PeriodScore) error
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// GetByID retrieves a board by its ID, nil if not found
	GetByID(ctx context.Context, id string) (*models.Board, error)

	// GetByIDForUpdate retrieves a board with a row lock held for the rest
	// of the transaction, nil if not found
	GetByIDForUpdate(ctx context.Context, id string) (*models.Board, error)

	// Create creates a new board
	Create(ctx context.Context, board *models.Board) error

	// AssignAxisNumbers stores the two axis permutations and closes the board
	AssignAxisNumbers(ctx context.Context, id string, homeNumbers, awayNumbers []int16) error

	// GetWinner retrieves the winner metadata for a period, nil if the
	// period has not been resolved
	GetWinner(ctx context.Context, boardID string, period models.Period) (*models.BoardWinner, error)

	// SetWinner records the winner metadata for a period
	SetWinner(ctx context.Context, winner *models.BoardWinner) error

	// ListDuePeriods returns (board, period) pairs whose game has a posted
	// score but whose period has not been resolved yet
	ListDuePeriods(ctx context.Context) ([]*models.DuePeriod, error)
}

// EntryRepository defines the interface for entry (claimed square) data access
type EntryRepository interface {
	// Create creates a new entry
	Create(ctx context.Context, entry *models.Entry) error

	// GetByBoard returns all entries on a board ordered by grid index
	GetByBoard(ctx context.Context, boardID string) ([]*models.Entry, error)

	// GetByBoardAndSquareValue returns entries on a board holding the given
	// square value
	GetByBoardAndSquareValue(ctx context.Context, boardID, value string) ([]*models.Entry, error)

	// UpdateSquareValues stores the computed square value per grid index
	// once axis numbers are assigned
	UpdateSquareValues(ctx context.Context, boardID string, values map[int]string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID, nil if not found
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Create creates a new user with an initial balance
	Create(ctx context.Context, id, displayName string, initialBalanceCents int64) (*models.User, error)

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, userID string, amountCents int64) error

	// DeductBalance deducts from a user's balance atomically, failing if
	// insufficient funds
	DeductBalance(ctx context.Context, userID string, amountCents int64) error
}

// LedgerRepository defines the interface for monetary record access
type LedgerRepository interface {
	// Create creates a new ledger entry, populating its ID and timestamp
	Create(ctx context.Context, entry *models.LedgerEntry) error

	// GetByUser returns ledger entries for a user, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.LedgerEntry, error)

	// GetByBoardAndPeriod returns ledger entries recorded for a board period
	GetByBoardAndPeriod(ctx context.Context, boardID string, period models.Period) ([]*models.LedgerEntry, error)
}

// NotificationRepository defines the interface for notification record access
type NotificationRepository interface {
	// Create creates a new notification, populating its ID and timestamp
	Create(ctx context.Context, notification *models.Notification) error

	// GetByUser returns notifications for a user, newest first
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
}

// WinRecordRepository defines the interface for private win record access
type WinRecordRepository interface {
	// Upsert writes a win record with merge semantics so replays are safe
	Upsert(ctx context.Context, record *models.WinRecord) error

	// GetByUser returns win records for a user, newest first
	GetByUser(ctx context.Context, userID string) ([]*models.WinRecord, error)

	// GetByBoardAndPeriod returns win records for a board period
	GetByBoardAndPeriod(ctx context.Context, boardID string, period models.Period) ([]*models.WinRecord, error)
}

// WinnerSummaryRepository defines the interface for public winner summaries
type WinnerSummaryRepository interface {
	// Upsert writes the summary for a board period
	Upsert(ctx context.Context, summary *models.WinnerSummary) error

	// Get retrieves the summary for a board period, nil if not resolved
	Get(ctx context.Context, boardID string, period models.Period) (*models.WinnerSummary, error)

	// GetByBoard returns all resolved period summaries for a board
	GetByBoard(ctx context.Context, boardID string) ([]*models.WinnerSummary, error)
}

// ReconcilerService defines the interface for period winner reconciliation
type ReconcilerService interface {
	// ReconcilePeriod deterministically and at-most-once computes and
	// records the winners and payout for one (game, board, period) triple.
	// Calling it again for a resolved period is a no-op that returns the
	// previously recorded result.
	ReconcilePeriod(ctx context.Context, gameID, boardID string, period models.Period) (*models.ReconcileResult, error)

	// ListDue returns (board, period) pairs ready to reconcile
	ListDue(ctx context.Context) ([]*models.DuePeriod, error)
}

// BoardService defines the interface for board lifecycle operations
type BoardService interface {
	// CreateBoard creates a board for a game with the given entry amount
	CreateBoard(ctx context.Context, boardID, gameID string, amountCents int64) (*models.Board, error)

	// ClaimSquare claims one grid cell for a user, deducting the entry fee
	// on paid boards
	ClaimSquare(ctx context.Context, boardID, userID string, gridIndex int) (*models.Entry, error)

	// AssignAxisNumbers randomizes the two axis permutations, closes the
	// board and stamps every entry's square value
	AssignAxisNumbers(ctx context.Context, boardID string) (*models.Board, error)

	// GetWinnerSummaries returns the public per-period summaries for a board
	GetWinnerSummaries(ctx context.Context, boardID string) ([]*models.WinnerSummary, error)
}

// UserService defines the interface for user operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates a new one
	GetOrCreateUser(ctx context.Context, id, displayName string) (*models.User, error)

	// GetBalance returns a user's current balance in cents
	GetBalance(ctx context.Context, id string) (int64, error)

	// GetLedger returns a user's most recent ledger entries
	GetLedger(ctx context.Context, id string, limit int) ([]*models.LedgerEntry, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	GameRepository() GameRepository
	BoardRepository() BoardRepository
	EntryRepository() EntryRepository
	UserRepository() UserRepository
	LedgerRepository() LedgerRepository
	NotificationRepository() NotificationRepository
	WinRecordRepository() WinRecordRepository
	WinnerSummaryRepository() WinnerSummaryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
