package models

import (
	"time"
)

// User represents an account with a wallet balance
type User struct {
	ID           string    `db:"id"`
	DisplayName  string    `db:"display_name"`
	BalanceCents int64     `db:"balance_cents"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
