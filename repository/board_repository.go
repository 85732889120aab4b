package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"squarepicks/database"
	"squarepicks/models"
)

// BoardRepository implements the BoardRepository interface
type BoardRepository struct {
	q queryable
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *database.DB) *BoardRepository {
	return &BoardRepository{q: db.Pool}
}

// newBoardRepositoryWithTx creates a new board repository with a transaction
func newBoardRepositoryWithTx(tx queryable) *BoardRepository {
	return &BoardRepository{q: tx}
}

const boardColumns = `id, game_id, amount_cents, pot_cents, payout_cents, status, home_numbers, away_numbers, created_at, updated_at`

func scanBoard(row pgx.Row) (*models.Board, error) {
	var board models.Board
	err := row.Scan(
		&board.ID,
		&board.GameID,
		&board.AmountCents,
		&board.PotCents,
		&board.PayoutCents,
		&board.Status,
		&board.HomeNumbers,
		&board.AwayNumbers,
		&board.CreatedAt,
		&board.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// GetByID retrieves a board by its ID
func (r *BoardRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`

	board, err := scanBoard(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", id, err)
	}
	return board, nil
}

// GetByIDForUpdate retrieves a board with a row lock held until the
// transaction ends. Concurrent callers for the same board serialize here.
func (r *BoardRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1 FOR UPDATE`

	board, err := scanBoard(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock board %s: %w", id, err)
	}
	return board, nil
}

// Create creates a new board
func (r *BoardRepository) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (id, game_id, amount_cents, pot_cents, payout_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		board.ID,
		board.GameID,
		board.AmountCents,
		board.PotCents,
		board.PayoutCents,
		board.Status,
	).Scan(&board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create board %s: %w", board.ID, err)
	}

	return nil
}

// AssignAxisNumbers stores the two axis permutations and closes the board
func (r *BoardRepository) AssignAxisNumbers(ctx context.Context, id string, homeNumbers, awayNumbers []int16) error {
	query := `
		UPDATE boards
		SET home_numbers = $2, away_numbers = $3, status = $4, updated_at = NOW()
		WHERE id = $1 AND home_numbers IS NULL
	`

	tag, err := r.q.Exec(ctx, query, id, homeNumbers, awayNumbers, models.BoardStatusClosed)
	if err != nil {
		return fmt.Errorf("failed to assign axis numbers for board %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("board %s not found or already has axis numbers", id)
	}

	return nil
}

// GetWinner retrieves the winner metadata for a period. A nil result means
// the period has not been resolved.
func (r *BoardRepository) GetWinner(ctx context.Context, boardID string, period models.Period) (*models.BoardWinner, error) {
	query := `
		SELECT board_id, period, assigned, winning_index, winning_value, paid, paid_amount_cents, assigned_at
		FROM board_winners
		WHERE board_id = $1 AND period = $2
	`

	var winner models.BoardWinner
	err := r.q.QueryRow(ctx, query, boardID, period).Scan(
		&winner.BoardID,
		&winner.Period,
		&winner.Assigned,
		&winner.WinningIndex,
		&winner.WinningValue,
		&winner.Paid,
		&winner.PaidAmountCents,
		&winner.AssignedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner for board %s period %s: %w", boardID, period, err)
	}

	return &winner, nil
}

// SetWinner records the winner metadata for a period. The assigned flag only
// ever transitions false to true; an already-assigned row is never updated.
func (r *BoardRepository) SetWinner(ctx context.Context, winner *models.BoardWinner) error {
	query := `
		INSERT INTO board_winners (board_id, period, assigned, winning_index, winning_value, paid, paid_amount_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (board_id, period)
		DO UPDATE SET
			assigned = EXCLUDED.assigned,
			winning_index = EXCLUDED.winning_index,
			winning_value = EXCLUDED.winning_value,
			paid = EXCLUDED.paid,
			paid_amount_cents = EXCLUDED.paid_amount_cents,
			assigned_at = NOW()
		WHERE board_winners.assigned = FALSE
		RETURNING assigned_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.BoardID,
		winner.Period,
		winner.Assigned,
		winner.WinningIndex,
		winner.WinningValue,
		winner.Paid,
		winner.PaidAmountCents,
	).Scan(&winner.AssignedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("winner already assigned for board %s period %s", winner.BoardID, winner.Period)
	}
	if err != nil {
		return fmt.Errorf("failed to set winner for board %s period %s: %w", winner.BoardID, winner.Period, err)
	}

	return nil
}

// ListDuePeriods returns (board, period) pairs whose game has a posted score
// but no assigned winner yet. Only closed boards on non-canceled games
// qualify.
func (r *BoardRepository) ListDuePeriods(ctx context.Context) ([]*models.DuePeriod, error) {
	query := `
		SELECT b.id, b.game_id, gs.period
		FROM boards b
		JOIN games g ON g.id = b.game_id
		JOIN game_scores gs ON gs.game_id = b.game_id
		LEFT JOIN board_winners bw ON bw.board_id = b.id AND bw.period = gs.period
		WHERE b.status = $1
		  AND g.status <> $2
		  AND (bw.board_id IS NULL OR bw.assigned = FALSE)
		ORDER BY gs.posted_at, b.id
	`

	rows, err := r.q.Query(ctx, query, models.BoardStatusClosed, models.GameStatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("failed to list due periods: %w", err)
	}
	defer rows.Close()

	var due []*models.DuePeriod
	for rows.Next() {
		var d models.DuePeriod
		if err := rows.Scan(&d.BoardID, &d.GameID, &d.Period); err != nil {
			return nil, fmt.Errorf("failed to scan due period: %w", err)
		}
		due = append(due, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due periods: %w", err)
	}

	return due, nil
}
