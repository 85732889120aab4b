package models

import (
	"fmt"
	"time"
)

// WinRecord is a private per-entry proof of a win for the owning user's
// history. One record exists per winning entry: a user holding two winning
// squares in the same period gets two records but only one payout. Writes use
// upsert semantics so replays are safe.
type WinRecord struct {
	BoardID     string    `db:"board_id"`
	Period      Period    `db:"period"`
	GridIndex   int       `db:"grid_index"`
	UserID      string    `db:"user_id"`
	AmountCents int64     `db:"amount_cents"`
	CreatedAt   time.Time `db:"created_at"`
}

// Key returns the deterministic board+period document key used by clients
func (w *WinRecord) Key() string {
	return WinRecordKey(w.BoardID, w.Period)
}

// WinRecordKey builds the deterministic {boardID}_{period} key
func WinRecordKey(boardID string, period Period) string {
	return fmt.Sprintf("%s_%s", boardID, period)
}
