package service

import (
	"context"
	"fmt"

	"squarepicks/events"
	"squarepicks/models"
)

// RecordWinnings credits one winning user for one period: balance increment,
// winnings ledger entry, notification, and the matching events. This is the
// single entry point for paying out winnings; all writes happen inside the
// caller's unit of work and the events flush only after commit.
func RecordWinnings(ctx context.Context, uow UnitOfWork, userID string, board *models.Board, period models.Period, amountCents int64) (*models.LedgerEntry, error) {
	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winning user %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("winning user %s not found", userID)
	}

	if err := uow.UserRepository().AddBalance(ctx, userID, amountCents); err != nil {
		return nil, fmt.Errorf("failed to credit winnings: %w", err)
	}

	boardID := board.ID
	gameID := board.GameID
	entryPeriod := period
	ledgerEntry := &models.LedgerEntry{
		UserID:      userID,
		EntryType:   models.LedgerEntryTypeWinnings,
		AmountCents: amountCents,
		Currency:    models.DefaultCurrency,
		Status:      models.LedgerEntryStatusCompleted,
		Description: fmt.Sprintf("Winnings for %s on board %s (game %s)", period, boardID, gameID),
		BoardID:     &boardID,
		GameID:      &gameID,
		Period:      &entryPeriod,
	}
	if err := uow.LedgerRepository().Create(ctx, ledgerEntry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	notification := &models.Notification{
		UserID:        userID,
		Kind:          models.NotificationKindWinnings,
		Title:         "You won!",
		Body:          fmt.Sprintf("Your square won %s. $%.2f has been added to your wallet.", periodLabel(period), float64(amountCents)/100),
		LedgerEntryID: &ledgerEntry.ID,
	}
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		OldBalance:   user.BalanceCents,
		NewBalance:   user.BalanceCents + amountCents,
		ChangeAmount: amountCents,
		EntryType:    models.LedgerEntryTypeWinnings,
	})
	uow.EventBus().Publish(events.WinnerPaidEvent{
		UserID:      userID,
		BoardID:     boardID,
		Period:      period,
		AmountCents: amountCents,
	})

	return ledgerEntry, nil
}

// periodLabel renders a period for user-facing copy
func periodLabel(p models.Period) string {
	switch p {
	case models.PeriodQ1:
		return "the 1st quarter"
	case models.PeriodQ2:
		return "the 2nd quarter"
	case models.PeriodQ3:
		return "the 3rd quarter"
	case models.PeriodFinal:
		return "the final score"
	}
	return string(p)
}
