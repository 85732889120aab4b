package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"squarepicks/database"
	"squarepicks/models"
)

// GameRepository implements the GameRepository interface
type GameRepository struct {
	q queryable
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{q: db.Pool}
}

// newGameRepositoryWithTx creates a new game repository with a transaction
func newGameRepositoryWithTx(tx queryable) *GameRepository {
	return &GameRepository{q: tx}
}

// GetByID retrieves a game by its ID
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `
		SELECT id, home_team, away_team, status, created_at, updated_at
		FROM games
		WHERE id = $1
	`

	var game models.Game
	err := r.q.QueryRow(ctx, query, id).Scan(
		&game.ID,
		&game.HomeTeam,
		&game.AwayTeam,
		&game.Status,
		&game.CreatedAt,
		&game.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}

	return &game, nil
}

// Create creates a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, home_team, away_team, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query, game.ID, game.HomeTeam, game.AwayTeam, game.Status).Scan(
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create game %s: %w", game.ID, err)
	}

	return nil
}

// UpdateStatus updates a game's lifecycle status
func (r *GameRepository) UpdateStatus(ctx context.Context, id string, status models.GameStatus) error {
	query := `
		UPDATE games
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status for game %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %s not found", id)
	}

	return nil
}

// GetScore retrieves the period-ending score pair for a period. A nil result
// means the period has not ended yet.
func (r *GameRepository) GetScore(ctx context.Context, gameID string, period models.Period) (*models.PeriodScore, error) {
	query := `
		SELECT game_id, period, home_score, away_score, posted_at
		FROM game_scores
		WHERE game_id = $1 AND period = $2
	`

	var score models.PeriodScore
	err := r.q.QueryRow(ctx, query, gameID, period).Scan(
		&score.GameID,
		&score.Period,
		&score.HomeScore,
		&score.AwayScore,
		&score.PostedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score for game %s period %s: %w", gameID, period, err)
	}

	return &score, nil
}

// UpsertScore records a period-ending score pair
func (r *GameRepository) UpsertScore(ctx context.Context, score *models.PeriodScore) error {
	query := `
		INSERT INTO game_scores (game_id, period, home_score, away_score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, period)
		DO UPDATE SET home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score, posted_at = NOW()
		RETURNING posted_at
	`

	err := r.q.QueryRow(ctx, query, score.GameID, score.Period, score.HomeScore, score.AwayScore).Scan(
		&score.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score for game %s period %s: %w", score.GameID, score.Period, err)
	}

	return nil
}
