package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"squarepicks/events"
	"squarepicks/models"
)

type reconcilerService struct {
	uowFactory UnitOfWorkFactory
}

// NewReconcilerService creates a service that assigns period winners and
// pays out boards.
func NewReconcilerService(uowFactory UnitOfWorkFactory) ReconcilerService {
	return &reconcilerService{
		uowFactory: uowFactory,
	}
}

// ReconcilePeriod assigns the winner for one (board, period) pair and pays
// every distinct winning user an equal share of the board's payout. The
// operation is idempotent: the assigned flag on the winner record is checked
// again inside the transaction after the board row is locked, so concurrent
// or repeated invocations settle each period at most once.
func (s *reconcilerService) ReconcilePeriod(ctx context.Context, gameID, boardID string, period models.Period) (*models.ReconcileResult, error) {
	if !period.IsValid() {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, &TransactionError{Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.IsCanceled() {
		return nil, fmt.Errorf("game %s is canceled, no payouts due", gameID)
	}

	score, err := uow.GameRepository().GetScore(ctx, gameID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get period score: %w", err)
	}
	if score == nil {
		return nil, ErrScoresNotReady
	}

	// Cheap pre-check before taking the row lock. Not authoritative; the
	// locked re-check below is.
	existing, err := uow.BoardRepository().GetWinner(ctx, boardID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check winner record: %w", err)
	}
	if existing != nil && existing.Assigned {
		return s.alreadyAssignedResult(ctx, uow, existing)
	}

	board, err := uow.BoardRepository().GetByIDForUpdate(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock board: %w", err)
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}
	if board.GameID != gameID {
		return nil, fmt.Errorf("board %s belongs to game %s, not %s", boardID, board.GameID, gameID)
	}

	// Authoritative idempotency check, made under the board row lock.
	existing, err = uow.BoardRepository().GetWinner(ctx, boardID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check winner record: %w", err)
	}
	if existing != nil && existing.Assigned {
		return s.alreadyAssignedResult(ctx, uow, existing)
	}

	if !board.HasAxisNumbers() {
		return nil, fmt.Errorf("board %s has no axis numbers assigned", boardID)
	}

	winningValue := score.WinningValue()
	entries, err := uow.EntryRepository().GetByBoardAndSquareValue(ctx, boardID, winningValue)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning entries: %w", err)
	}

	result := &models.ReconcileResult{
		BoardID:      boardID,
		Period:       period,
		WinningValue: winningValue,
	}

	if len(entries) == 0 {
		if err := s.settleUnclaimed(ctx, uow, board, period, winningValue); err != nil {
			return nil, &TransactionError{Err: err}
		}
	} else {
		paid, perWinner, winningIndex, err := s.settleWinners(ctx, uow, board, period, winningValue, entries)
		if err != nil {
			return nil, &TransactionError{Err: err}
		}
		result.WinnersPaid = paid
		result.PerWinnerCents = perWinner
		result.WinningIndex = winningIndex
	}

	uow.EventBus().Publish(events.PeriodReconciledEvent{
		BoardID:      boardID,
		GameID:       gameID,
		Period:       period,
		WinningValue: winningValue,
		WinningIndex: result.WinningIndex,
		WinnersPaid:  result.WinnersPaid,
		PayoutCents:  board.PayoutCents,
	})

	if err := uow.Commit(); err != nil {
		return nil, &TransactionError{Err: fmt.Errorf("failed to commit: %w", err)}
	}

	log.WithFields(log.Fields{
		"boardID":      boardID,
		"gameID":       gameID,
		"period":       period,
		"winningValue": winningValue,
		"winnersPaid":  result.WinnersPaid,
	}).Info("Period reconciled")

	return result, nil
}

// settleWinners pays each distinct winning user an equal share, records a win
// record per winning entry, and marks the period assigned and paid.
func (s *reconcilerService) settleWinners(ctx context.Context, uow UnitOfWork, board *models.Board, period models.Period, winningValue string, entries []*models.Entry) (int, int64, *int, error) {
	userIDs := models.DistinctUsers(entries)
	perWinner := models.SplitPayout(board.PayoutCents, len(userIDs))

	for _, userID := range userIDs {
		if _, err := RecordWinnings(ctx, uow, userID, board, period, perWinner); err != nil {
			return 0, 0, nil, err
		}
	}

	for _, entry := range entries {
		record := &models.WinRecord{
			BoardID:     board.ID,
			Period:      period,
			UserID:      entry.UserID,
			GridIndex:   entry.GridIndex,
			AmountCents: perWinner,
		}
		if err := uow.WinRecordRepository().Upsert(ctx, record); err != nil {
			return 0, 0, nil, fmt.Errorf("failed to upsert win record: %w", err)
		}
	}

	winningIndex := entries[0].GridIndex
	summary := &models.WinnerSummary{
		BoardID:      board.ID,
		Period:       period,
		WinningValue: winningValue,
		WinningIndex: &winningIndex,
		WinnerCount:  len(userIDs),
	}
	if err := uow.WinnerSummaryRepository().Upsert(ctx, summary); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to upsert winner summary: %w", err)
	}

	winner := &models.BoardWinner{
		BoardID:         board.ID,
		Period:          period,
		Assigned:        true,
		WinningIndex:    &winningIndex,
		WinningValue:    winningValue,
		Paid:            true,
		PaidAmountCents: board.PayoutCents,
	}
	if err := uow.BoardRepository().SetWinner(ctx, winner); err != nil {
		return 0, 0, nil, fmt.Errorf("failed to set winner record: %w", err)
	}

	return len(userIDs), perWinner, &winningIndex, nil
}

// settleUnclaimed closes out a period whose winning square was never claimed.
// The assigned flag is still set so the period is never revisited.
func (s *reconcilerService) settleUnclaimed(ctx context.Context, uow UnitOfWork, board *models.Board, period models.Period, winningValue string) error {
	summary := &models.WinnerSummary{
		BoardID:      board.ID,
		Period:       period,
		WinningValue: winningValue,
		WinningIndex: nil,
		WinnerCount:  0,
	}
	if err := uow.WinnerSummaryRepository().Upsert(ctx, summary); err != nil {
		return fmt.Errorf("failed to upsert winner summary: %w", err)
	}

	winner := &models.BoardWinner{
		BoardID:      board.ID,
		Period:       period,
		Assigned:     true,
		WinningValue: winningValue,
		Paid:         false,
	}
	if err := uow.BoardRepository().SetWinner(ctx, winner); err != nil {
		return fmt.Errorf("failed to set winner record: %w", err)
	}
	return nil
}

// alreadyAssignedResult reports a previously settled period without writing
// anything.
func (s *reconcilerService) alreadyAssignedResult(ctx context.Context, uow UnitOfWork, winner *models.BoardWinner) (*models.ReconcileResult, error) {
	result := &models.ReconcileResult{
		BoardID:         winner.BoardID,
		Period:          winner.Period,
		WinningValue:    winner.WinningValue,
		WinningIndex:    winner.WinningIndex,
		AlreadyAssigned: true,
	}
	if winner.Paid {
		summary, err := uow.WinnerSummaryRepository().Get(ctx, winner.BoardID, winner.Period)
		if err != nil {
			return nil, fmt.Errorf("failed to get winner summary: %w", err)
		}
		if summary != nil && summary.WinnerCount > 0 {
			result.WinnersPaid = summary.WinnerCount
			result.PerWinnerCents = models.SplitPayout(winner.PaidAmountCents, summary.WinnerCount)
		}
	}
	return result, nil
}

// ListDue returns the (board, period) pairs with a recorded score and no
// assigned winner yet.
func (s *reconcilerService) ListDue(ctx context.Context) ([]*models.DuePeriod, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	due, err := uow.BoardRepository().ListDuePeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list due periods: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return due, nil
}
