package models

import (
	"time"
)

// BoardStatus represents the lifecycle of a board
type BoardStatus string

const (
	BoardStatusOpen   BoardStatus = "open"
	BoardStatusClosed BoardStatus = "closed"
)

// Board represents one 10x10 grid tied to a single game and a single entry
// amount (0 = free/sweepstakes, >0 = paid). Axis numbers are the two random
// permutations of digits 0-9 assigned once the board closes; they stay nil
// while the board is open.
type Board struct {
	ID          string      `db:"id"`
	GameID      string      `db:"game_id"`
	AmountCents int64       `db:"amount_cents"`
	PotCents    int64       `db:"pot_cents"`
	PayoutCents int64       `db:"payout_cents"`
	Status      BoardStatus `db:"status"`
	HomeNumbers []int16     `db:"home_numbers"`
	AwayNumbers []int16     `db:"away_numbers"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

// BoardWinner is the per-period winner metadata on a board. The Assigned flag
// is the idempotency guard: it transitions false->true exactly once and is
// never reverted.
type BoardWinner struct {
	BoardID         string    `db:"board_id"`
	Period          Period    `db:"period"`
	Assigned        bool      `db:"assigned"`
	WinningIndex    *int      `db:"winning_index"`
	WinningValue    string    `db:"winning_value"`
	Paid            bool      `db:"paid"`
	PaidAmountCents int64     `db:"paid_amount_cents"`
	AssignedAt      time.Time `db:"assigned_at"`
}

// DuePeriod is a (board, period) pair whose game has a posted period score
// but whose winner has not been assigned yet
type DuePeriod struct {
	BoardID string `db:"board_id"`
	GameID  string `db:"game_id"`
	Period  Period `db:"period"`
}

// IsOpen checks if the board still accepts entries
func (b *Board) IsOpen() bool {
	return b.Status == BoardStatusOpen
}

// HasAxisNumbers checks if both axis permutations have been assigned
func (b *Board) HasAxisNumbers() bool {
	return len(b.HomeNumbers) == 10 && len(b.AwayNumbers) == 10
}

// SquareValueAt computes the square value of a grid index from the board's
// assigned axis numbers: away-axis digit (row) then home-axis digit (column).
func (b *Board) SquareValueAt(index int) string {
	return SquareValue(int(b.AwayNumbers[GridRow(index)]), int(b.HomeNumbers[GridColumn(index)]))
}
