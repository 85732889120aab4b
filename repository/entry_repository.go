package repository

import (
	"context"
	"fmt"

	"squarepicks/database"
	"squarepicks/models"
)

// EntryRepository implements the EntryRepository interface
type EntryRepository struct {
	q queryable
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{q: db.Pool}
}

// newEntryRepositoryWithTx creates a new entry repository with a transaction
func newEntryRepositoryWithTx(tx queryable) *EntryRepository {
	return &EntryRepository{q: tx}
}

// Create creates a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (board_id, user_id, grid_index, square_value)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, entry.BoardID, entry.UserID, entry.GridIndex, entry.SquareValue).Scan(
		&entry.ID,
		&entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create entry on board %s index %d: %w", entry.BoardID, entry.GridIndex, err)
	}

	return nil
}

func (r *EntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		var entry models.Entry
		var squareValue *string
		if err := rows.Scan(&entry.ID, &entry.BoardID, &entry.UserID, &entry.GridIndex, &squareValue, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if squareValue != nil {
			entry.SquareValue = *squareValue
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// GetByBoard returns all entries on a board ordered by grid index
func (r *EntryRepository) GetByBoard(ctx context.Context, boardID string) ([]*models.Entry, error) {
	query := `
		SELECT id, board_id, user_id, grid_index, square_value, created_at
		FROM entries
		WHERE board_id = $1
		ORDER BY grid_index
	`

	entries, err := r.queryEntries(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for board %s: %w", boardID, err)
	}
	return entries, nil
}

// GetByBoardAndSquareValue returns entries on a board holding the given
// square value, ordered by grid index so the first match is deterministic
func (r *EntryRepository) GetByBoardAndSquareValue(ctx context.Context, boardID, value string) ([]*models.Entry, error) {
	query := `
		SELECT id, board_id, user_id, grid_index, square_value, created_at
		FROM entries
		WHERE board_id = $1 AND square_value = $2
		ORDER BY grid_index
	`

	entries, err := r.queryEntries(ctx, query, boardID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for board %s value %s: %w", boardID, value, err)
	}
	return entries, nil
}

// UpdateSquareValues stamps the computed square value per grid index once
// axis numbers are assigned
func (r *EntryRepository) UpdateSquareValues(ctx context.Context, boardID string, values map[int]string) error {
	indexes := make([]int, 0, len(values))
	squareValues := make([]string, 0, len(values))
	for index, value := range values {
		indexes = append(indexes, index)
		squareValues = append(squareValues, value)
	}

	query := `
		UPDATE entries e
		SET square_value = v.square_value
		FROM (SELECT UNNEST($2::INT[]) AS grid_index, UNNEST($3::CHAR(2)[]) AS square_value) v
		WHERE e.board_id = $1 AND e.grid_index = v.grid_index
	`

	if _, err := r.q.Exec(ctx, query, boardID, indexes, squareValues); err != nil {
		return fmt.Errorf("failed to update square values for board %s: %w", boardID, err)
	}

	return nil
}
