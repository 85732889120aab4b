package models

import (
	"time"
)

// WinnerSummary is the per-board-per-period record visible to all
// participants once a period has been resolved. WinningIndex is nil when no
// entry matched the winning value.
type WinnerSummary struct {
	BoardID      string    `db:"board_id"`
	Period       Period    `db:"period"`
	WinningIndex *int      `db:"winning_index"`
	WinningValue string    `db:"winning_value"`
	WinnerCount  int       `db:"winner_count"`
	AssignedAt   time.Time `db:"assigned_at"`
}
