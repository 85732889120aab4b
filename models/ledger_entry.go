package models

import (
	"time"
)

// LedgerEntryType represents the type of monetary record
type LedgerEntryType string

const (
	LedgerEntryTypeWinnings   LedgerEntryType = "winnings"
	LedgerEntryTypeDeposit    LedgerEntryType = "deposit"
	LedgerEntryTypeWithdrawal LedgerEntryType = "withdrawal"
	LedgerEntryTypeEntryFee   LedgerEntryType = "entry_fee"
)

// LedgerEntryStatus represents the settlement state of a ledger entry
type LedgerEntryStatus string

const (
	LedgerEntryStatusCompleted LedgerEntryStatus = "completed"
	LedgerEntryStatusPending   LedgerEntryStatus = "pending"
)

// DefaultCurrency is the currency recorded on ledger entries
const DefaultCurrency = "USD"

// LedgerEntry is an immutable monetary record. Winnings entries are created
// only by the reconciler; deposit/withdrawal entries come from the wallet
// flows.
type LedgerEntry struct {
	ID          int64             `db:"id"`
	UserID      string            `db:"user_id"`
	EntryType   LedgerEntryType   `db:"entry_type"`
	AmountCents int64             `db:"amount_cents"`
	Currency    string            `db:"currency"`
	Status      LedgerEntryStatus `db:"status"`
	Description string            `db:"description"`
	BoardID     *string           `db:"board_id"`
	GameID      *string           `db:"game_id"`
	Period      *Period           `db:"period"`
	CreatedAt   time.Time         `db:"created_at"`
}
