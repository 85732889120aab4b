package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"

	"squarepicks/events"
)

// registerEventLogging subscribes audit log handlers for the domain events.
// Handlers run after commit, off the transaction path.
func registerEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypePeriodReconciled, func(ctx context.Context, e events.Event) {
		ev := e.(events.PeriodReconciledEvent)
		log.WithFields(log.Fields{
			"boardID":      ev.BoardID,
			"gameID":       ev.GameID,
			"period":       ev.Period,
			"winningValue": ev.WinningValue,
			"winnersPaid":  ev.WinnersPaid,
		}).Info("Period reconciled event")
	})

	bus.Subscribe(events.EventTypeWinnerPaid, func(ctx context.Context, e events.Event) {
		ev := e.(events.WinnerPaidEvent)
		log.WithFields(log.Fields{
			"userID":      ev.UserID,
			"boardID":     ev.BoardID,
			"period":      ev.Period,
			"amountCents": ev.AmountCents,
		}).Info("Winner paid event")
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		ev := e.(events.BalanceChangeEvent)
		log.WithFields(log.Fields{
			"userID":       ev.UserID,
			"oldBalance":   ev.OldBalance,
			"newBalance":   ev.NewBalance,
			"changeAmount": ev.ChangeAmount,
			"entryType":    ev.EntryType,
		}).Debug("Balance change event")
	})
}
