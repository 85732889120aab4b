package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"squarepicks/database"
	"squarepicks/models"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, display_name, balance_cents, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.BalanceCents,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return &user, nil
}

// Create creates a new user with an initial balance
func (r *UserRepository) Create(ctx context.Context, id, displayName string, initialBalanceCents int64) (*models.User, error) {
	query := `
		INSERT INTO users (id, display_name, balance_cents)
		VALUES ($1, $2, $3)
		RETURNING id, display_name, balance_cents, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, id, displayName, initialBalanceCents).Scan(
		&user.ID,
		&user.DisplayName,
		&user.BalanceCents,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", id, err)
	}

	return &user, nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, userID string, amountCents int64) error {
	query := `
		UPDATE users
		SET balance_cents = balance_cents + $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, userID, amountCents)
	if err != nil {
		return fmt.Errorf("failed to add balance for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", userID)
	}

	return nil
}

// DeductBalance deducts from a user's balance atomically. The balance check
// happens in the same statement so the balance can never go negative.
func (r *UserRepository) DeductBalance(ctx context.Context, userID string, amountCents int64) error {
	query := `
		UPDATE users
		SET balance_cents = balance_cents - $2, updated_at = NOW()
		WHERE id = $1 AND balance_cents >= $2
	`

	tag, err := r.q.Exec(ctx, query, userID, amountCents)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insufficient balance for user %s", userID)
	}

	return nil
}
