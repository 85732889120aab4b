package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"squarepicks/database"
	"squarepicks/models"
)

// WinnerSummaryRepository implements the WinnerSummaryRepository interface
type WinnerSummaryRepository struct {
	q queryable
}

// NewWinnerSummaryRepository creates a new winner summary repository
func NewWinnerSummaryRepository(db *database.DB) *WinnerSummaryRepository {
	return &WinnerSummaryRepository{q: db.Pool}
}

// newWinnerSummaryRepositoryWithTx creates a new winner summary repository with a transaction
func newWinnerSummaryRepositoryWithTx(tx queryable) *WinnerSummaryRepository {
	return &WinnerSummaryRepository{q: tx}
}

// Upsert writes the summary for a board period
func (r *WinnerSummaryRepository) Upsert(ctx context.Context, summary *models.WinnerSummary) error {
	query := `
		INSERT INTO winner_summaries (board_id, period, winning_index, winning_value, winner_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (board_id, period)
		DO UPDATE SET
			winning_index = EXCLUDED.winning_index,
			winning_value = EXCLUDED.winning_value,
			winner_count = EXCLUDED.winner_count,
			assigned_at = NOW()
		RETURNING assigned_at
	`

	err := r.q.QueryRow(ctx, query,
		summary.BoardID,
		summary.Period,
		summary.WinningIndex,
		summary.WinningValue,
		summary.WinnerCount,
	).Scan(&summary.AssignedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert winner summary for board %s period %s: %w", summary.BoardID, summary.Period, err)
	}

	return nil
}

// Get retrieves the summary for a board period, nil if not resolved
func (r *WinnerSummaryRepository) Get(ctx context.Context, boardID string, period models.Period) (*models.WinnerSummary, error) {
	query := `
		SELECT board_id, period, winning_index, winning_value, winner_count, assigned_at
		FROM winner_summaries
		WHERE board_id = $1 AND period = $2
	`

	var summary models.WinnerSummary
	err := r.q.QueryRow(ctx, query, boardID, period).Scan(
		&summary.BoardID,
		&summary.Period,
		&summary.WinningIndex,
		&summary.WinningValue,
		&summary.WinnerCount,
		&summary.AssignedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner summary for board %s period %s: %w", boardID, period, err)
	}

	return &summary, nil
}

// GetByBoard returns all resolved period summaries for a board
func (r *WinnerSummaryRepository) GetByBoard(ctx context.Context, boardID string) ([]*models.WinnerSummary, error) {
	query := `
		SELECT board_id, period, winning_index, winning_value, winner_count, assigned_at
		FROM winner_summaries
		WHERE board_id = $1
		ORDER BY CASE period WHEN 'q1' THEN 1 WHEN 'q2' THEN 2 WHEN 'q3' THEN 3 ELSE 4 END
	`

	rows, err := r.q.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner summaries for board %s: %w", boardID, err)
	}
	defer rows.Close()

	var summaries []*models.WinnerSummary
	for rows.Next() {
		var summary models.WinnerSummary
		if err := rows.Scan(
			&summary.BoardID,
			&summary.Period,
			&summary.WinningIndex,
			&summary.WinningValue,
			&summary.WinnerCount,
			&summary.AssignedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan winner summary: %w", err)
		}
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winner summaries: %w", err)
	}

	return summaries, nil
}
