package service

import (
	"context"
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"squarepicks/models"
)

type boardService struct {
	uowFactory UnitOfWorkFactory
}

// NewBoardService creates a service for board lifecycle operations.
func NewBoardService(uowFactory UnitOfWorkFactory) BoardService {
	return &boardService{
		uowFactory: uowFactory,
	}
}

func (s *boardService) CreateBoard(ctx context.Context, boardID, gameID string, amountCents int64) (*models.Board, error) {
	if amountCents < 0 {
		return nil, fmt.Errorf("entry amount cannot be negative: %d", amountCents)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	potCents := amountCents * models.BoardSize
	board := &models.Board{
		ID:          boardID,
		GameID:      gameID,
		AmountCents: amountCents,
		PotCents:    potCents,
		PayoutCents: potCents / 5,
		Status:      models.BoardStatusOpen,
	}
	if err := uow.BoardRepository().Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return board, nil
}

func (s *boardService) ClaimSquare(ctx context.Context, boardID, userID string, gridIndex int) (*models.Entry, error) {
	if gridIndex < 0 || gridIndex >= models.BoardSize {
		return nil, fmt.Errorf("grid index out of range: %d", gridIndex)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	board, err := uow.BoardRepository().GetByIDForUpdate(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock board: %w", err)
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}
	if !board.IsOpen() {
		return nil, fmt.Errorf("board %s is not open", boardID)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}

	if board.AmountCents > 0 {
		if err := uow.UserRepository().DeductBalance(ctx, userID, board.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to deduct entry fee: %w", err)
		}
		boardRef := board.ID
		gameRef := board.GameID
		ledgerEntry := &models.LedgerEntry{
			UserID:      userID,
			EntryType:   models.LedgerEntryTypeEntryFee,
			AmountCents: -board.AmountCents,
			Currency:    models.DefaultCurrency,
			Status:      models.LedgerEntryStatusCompleted,
			Description: fmt.Sprintf("Entry fee for board %s square %d", boardID, gridIndex),
			BoardID:     &boardRef,
			GameID:      &gameRef,
		}
		if err := uow.LedgerRepository().Create(ctx, ledgerEntry); err != nil {
			return nil, fmt.Errorf("failed to create ledger entry: %w", err)
		}
	}

	entry := &models.Entry{
		BoardID:   boardID,
		UserID:    userID,
		GridIndex: gridIndex,
	}
	if board.HasAxisNumbers() {
		entry.SquareValue = board.SquareValueAt(gridIndex)
	}
	if err := uow.EntryRepository().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return entry, nil
}

func (s *boardService) AssignAxisNumbers(ctx context.Context, boardID string) (*models.Board, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	board, err := uow.BoardRepository().GetByIDForUpdate(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock board: %w", err)
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}
	if board.HasAxisNumbers() {
		return nil, fmt.Errorf("board %s already has axis numbers", boardID)
	}

	homeNumbers := randomDigits()
	awayNumbers := randomDigits()
	if err := uow.BoardRepository().AssignAxisNumbers(ctx, boardID, homeNumbers, awayNumbers); err != nil {
		return nil, fmt.Errorf("failed to assign axis numbers: %w", err)
	}
	board.HomeNumbers = homeNumbers
	board.AwayNumbers = awayNumbers
	board.Status = models.BoardStatusClosed

	entries, err := uow.EntryRepository().GetByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	if len(entries) > 0 {
		values := make(map[int]string, len(entries))
		for _, entry := range entries {
			values[entry.GridIndex] = board.SquareValueAt(entry.GridIndex)
		}
		if err := uow.EntryRepository().UpdateSquareValues(ctx, boardID, values); err != nil {
			return nil, fmt.Errorf("failed to stamp square values: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	log.WithFields(log.Fields{
		"boardID": boardID,
		"entries": len(entries),
	}).Info("Axis numbers assigned")

	return board, nil
}

func (s *boardService) GetWinnerSummaries(ctx context.Context, boardID string) ([]*models.WinnerSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	board, err := uow.BoardRepository().GetByID(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}

	summaries, err := uow.WinnerSummaryRepository().GetByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner summaries: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return summaries, nil
}

// randomDigits returns the digits 0..9 in random order.
func randomDigits() []int16 {
	digits := make([]int16, 10)
	for i := range digits {
		digits[i] = int16(i)
	}
	rand.Shuffle(len(digits), func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})
	return digits
}
