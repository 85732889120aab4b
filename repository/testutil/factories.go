package testutil

import (
	"context"
	"testing"

	"squarepicks/database"
	"squarepicks/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// CreateTestGame creates a test game with default values
func CreateTestGame(id string) *models.Game {
	return &models.Game{
		ID:       id,
		HomeTeam: "Hawks",
		AwayTeam: "Knicks",
		Status:   models.GameStatusInProgress,
	}
}

// CreateTestBoard creates a closed test board with sequential axis numbers,
// so grid index i maps to square value "{i/10}{i%10}"
func CreateTestBoard(id, gameID string, amountCents int64) *models.Board {
	potCents := amountCents * models.BoardSize
	return &models.Board{
		ID:          id,
		GameID:      gameID,
		AmountCents: amountCents,
		PotCents:    potCents,
		PayoutCents: potCents / 5,
		Status:      models.BoardStatusClosed,
		HomeNumbers: SequentialDigits(),
		AwayNumbers: SequentialDigits(),
	}
}

// SequentialDigits returns the identity axis permutation 0..9
func SequentialDigits() []int16 {
	return []int16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
}

// SeedGame inserts a game directly, bypassing the repositories
func SeedGame(t *testing.T, db *database.DB, game *models.Game) {
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO games (id, home_team, away_team, status) VALUES ($1, $2, $3, $4)`,
			game.ID, game.HomeTeam, game.AwayTeam, game.Status)
		return err
	})
	require.NoError(t, err)
}

// SeedUser inserts a user directly, bypassing the repositories
func SeedUser(t *testing.T, db *database.DB, id, displayName string, balanceCents int64) {
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO users (id, display_name, balance_cents) VALUES ($1, $2, $3)`,
			id, displayName, balanceCents)
		return err
	})
	require.NoError(t, err)
}

// SeedBoard inserts a board directly, bypassing the repositories
func SeedBoard(t *testing.T, db *database.DB, board *models.Board) {
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO boards (id, game_id, amount_cents, pot_cents, payout_cents, status, home_numbers, away_numbers)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			board.ID, board.GameID, board.AmountCents, board.PotCents, board.PayoutCents,
			board.Status, board.HomeNumbers, board.AwayNumbers)
		return err
	})
	require.NoError(t, err)
}

// SeedEntry inserts an entry directly, bypassing the repositories
func SeedEntry(t *testing.T, db *database.DB, boardID, userID string, gridIndex int, squareValue string) {
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO entries (board_id, user_id, grid_index, square_value) VALUES ($1, $2, $3, $4)`,
			boardID, userID, gridIndex, squareValue)
		return err
	})
	require.NoError(t, err)
}

// SeedScore inserts a period-ending score pair directly
func SeedScore(t *testing.T, db *database.DB, gameID string, period models.Period, homeScore, awayScore int) {
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO game_scores (game_id, period, home_score, away_score) VALUES ($1, $2, $3, $4)`,
			gameID, period, homeScore, awayScore)
		return err
	})
	require.NoError(t, err)
}
