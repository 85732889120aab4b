package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"squarepicks/database"
	"squarepicks/events"
	"squarepicks/service"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                *database.DB
	tx                pgx.Tx
	ctx               context.Context
	transactionalBus  *events.TransactionalBus
	gameRepo          service.GameRepository
	boardRepo         service.BoardRepository
	entryRepo         service.EntryRepository
	userRepo          service.UserRepository
	ledgerRepo        service.LedgerRepository
	notificationRepo  service.NotificationRepository
	winRecordRepo     service.WinRecordRepository
	winnerSummaryRepo service.WinnerSummaryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.boardRepo = newBoardRepositoryWithTx(tx)
	u.entryRepo = newEntryRepositoryWithTx(tx)
	u.userRepo = newUserRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.notificationRepo = newNotificationRepositoryWithTx(tx)
	u.winRecordRepo = newWinRecordRepositoryWithTx(tx)
	u.winnerSummaryRepo = newWinnerSummaryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	if u.gameRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameRepo
}

// BoardRepository returns the board repository for this unit of work
func (u *unitOfWork) BoardRepository() service.BoardRepository {
	if u.boardRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.boardRepo
}

// EntryRepository returns the entry repository for this unit of work
func (u *unitOfWork) EntryRepository() service.EntryRepository {
	if u.entryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.entryRepo
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() service.LedgerRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// NotificationRepository returns the notification repository for this unit of work
func (u *unitOfWork) NotificationRepository() service.NotificationRepository {
	if u.notificationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.notificationRepo
}

// WinRecordRepository returns the win record repository for this unit of work
func (u *unitOfWork) WinRecordRepository() service.WinRecordRepository {
	if u.winRecordRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.winRecordRepo
}

// WinnerSummaryRepository returns the winner summary repository for this unit of work
func (u *unitOfWork) WinnerSummaryRepository() service.WinnerSummaryRepository {
	if u.winnerSummaryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.winnerSummaryRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
