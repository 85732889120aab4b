package repository

import (
	"context"
	"fmt"

	"squarepicks/database"
	"squarepicks/models"
)

// WinRecordRepository implements the WinRecordRepository interface
type WinRecordRepository struct {
	q queryable
}

// NewWinRecordRepository creates a new win record repository
func NewWinRecordRepository(db *database.DB) *WinRecordRepository {
	return &WinRecordRepository{q: db.Pool}
}

// newWinRecordRepositoryWithTx creates a new win record repository with a transaction
func newWinRecordRepositoryWithTx(tx queryable) *WinRecordRepository {
	return &WinRecordRepository{q: tx}
}

// Upsert writes a win record with merge semantics so replays are safe
func (r *WinRecordRepository) Upsert(ctx context.Context, record *models.WinRecord) error {
	query := `
		INSERT INTO win_records (board_id, period, grid_index, user_id, amount_cents)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (board_id, period, grid_index)
		DO UPDATE SET user_id = EXCLUDED.user_id, amount_cents = EXCLUDED.amount_cents
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.BoardID,
		record.Period,
		record.GridIndex,
		record.UserID,
		record.AmountCents,
	).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert win record for board %s period %s index %d: %w",
			record.BoardID, record.Period, record.GridIndex, err)
	}

	return nil
}

const winRecordColumns = `board_id, period, grid_index, user_id, amount_cents, created_at`

func (r *WinRecordRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*models.WinRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.WinRecord
	for rows.Next() {
		var record models.WinRecord
		if err := rows.Scan(
			&record.BoardID,
			&record.Period,
			&record.GridIndex,
			&record.UserID,
			&record.AmountCents,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// GetByUser returns win records for a user, newest first
func (r *WinRecordRepository) GetByUser(ctx context.Context, userID string) ([]*models.WinRecord, error) {
	query := `
		SELECT ` + winRecordColumns + `
		FROM win_records
		WHERE user_id = $1
		ORDER BY created_at DESC, board_id, period, grid_index
	`

	records, err := r.queryRecords(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get win records for user %s: %w", userID, err)
	}
	return records, nil
}

// GetByBoardAndPeriod returns win records for a board period
func (r *WinRecordRepository) GetByBoardAndPeriod(ctx context.Context, boardID string, period models.Period) ([]*models.WinRecord, error) {
	query := `
		SELECT ` + winRecordColumns + `
		FROM win_records
		WHERE board_id = $1 AND period = $2
		ORDER BY grid_index
	`

	records, err := r.queryRecords(ctx, query, boardID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get win records for board %s period %s: %w", boardID, period, err)
	}
	return records, nil
}
