package repository

import (
	"context"
	"fmt"

	"squarepicks/database"
	"squarepicks/models"
)

// LedgerRepository implements the LedgerRepository interface
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Create creates a new ledger entry, populating its ID and timestamp
func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (user_id, entry_type, amount_cents, currency, status, description, board_id, game_id, period)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.EntryType,
		entry.AmountCents,
		entry.Currency,
		entry.Status,
		entry.Description,
		entry.BoardID,
		entry.GameID,
		entry.Period,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ledger entry for user %s: %w", entry.UserID, err)
	}

	return nil
}

const ledgerColumns = `id, user_id, entry_type, amount_cents, currency, status, description, board_id, game_id, period, created_at`

func (r *LedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*models.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EntryType,
			&entry.AmountCents,
			&entry.Currency,
			&entry.Status,
			&entry.Description,
			&entry.BoardID,
			&entry.GameID,
			&entry.Period,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// GetByUser returns ledger entries for a user, newest first
func (r *LedgerRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	entries, err := r.queryEntries(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %s: %w", userID, err)
	}
	return entries, nil
}

// GetByBoardAndPeriod returns ledger entries recorded for a board period
func (r *LedgerRepository) GetByBoardAndPeriod(ctx context.Context, boardID string, period models.Period) ([]*models.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE board_id = $1 AND period = $2
		ORDER BY id
	`

	entries, err := r.queryEntries(ctx, query, boardID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for board %s period %s: %w", boardID, period, err)
	}
	return entries, nil
}
