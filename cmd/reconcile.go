package cmd

import (
	"context"
	"fmt"
	"log"

	"squarepicks/config"
	"squarepicks/database"
	"squarepicks/events"
	"squarepicks/models"
	"squarepicks/repository"
	"squarepicks/service"
)

// Reconcile runs one reconciliation from the command line:
//
//	squarepicks reconcile <gameID> <boardID> <period>
func Reconcile(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: squarepicks reconcile <gameID> <boardID> <period>")
	}
	gameID, boardID := args[0], args[1]

	period, err := models.ParsePeriod(args[2])
	if err != nil {
		return err
	}

	cfg := config.Get()
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, events.NewBus())
	reconciler := service.NewReconcilerService(uowFactory)

	result, err := reconciler.ReconcilePeriod(ctx, gameID, boardID, period)
	if err != nil {
		return err
	}

	if result.AlreadyAssigned {
		log.Printf("Period %s on board %s was already assigned (winning value %s)",
			result.Period, result.BoardID, result.WinningValue)
		return nil
	}
	if result.WinnersPaid == 0 {
		log.Printf("Period %s on board %s resolved with no winner (winning value %s)",
			result.Period, result.BoardID, result.WinningValue)
		return nil
	}
	log.Printf("Period %s on board %s resolved: winning value %s, %d winner(s) paid $%.2f each",
		result.Period, result.BoardID, result.WinningValue, result.WinnersPaid, float64(result.PerWinnerCents)/100)
	return nil
}
