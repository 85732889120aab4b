package models

import (
	"time"
)

// Entry is one user's claim on one grid cell of a board. SquareValue is empty
// until the board's axis numbers are assigned.
type Entry struct {
	ID          int64     `db:"id"`
	BoardID     string    `db:"board_id"`
	UserID      string    `db:"user_id"`
	GridIndex   int       `db:"grid_index"`
	SquareValue string    `db:"square_value"`
	CreatedAt   time.Time `db:"created_at"`
}

// DistinctUsers collects the distinct owning users among a set of entries,
// preserving first-seen order. A user holding more than one matching entry
// appears once; the payout split is per user, not per entry.
func DistinctUsers(entries []*Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	var users []string
	for _, e := range entries {
		if _, ok := seen[e.UserID]; ok {
			continue
		}
		seen[e.UserID] = struct{}{}
		users = append(users, e.UserID)
	}
	return users
}
