package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"squarepicks/config"
	"squarepicks/database"
	"squarepicks/events"
	"squarepicks/repository"
	"squarepicks/server"
	"squarepicks/service"
	"squarepicks/sweeper"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting squarepicks reconciler...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	registerEventLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	reconcilerService := service.NewReconcilerService(uowFactory)
	boardService := service.NewBoardService(uowFactory)
	userService := service.NewUserService(uowFactory)

	// Start the reconciliation sweeper
	var stopSweeper func()
	if cfg.SweepEnabled {
		stopSweeper = sweeper.New(reconcilerService, cfg.SweepInterval).Start(ctx)
	} else {
		log.Println("Reconciliation sweeper disabled")
	}

	// Start the HTTP server
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(reconcilerService, boardService, userService).Handler(),
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s in %s mode...", cfg.HTTPAddr, cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown or a server failure
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	}

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if stopSweeper != nil {
		stopSweeper()
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
