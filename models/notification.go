package models

import (
	"time"
)

// NotificationKind tags a notification for client-side grouping
type NotificationKind string

const (
	NotificationKindWinnings NotificationKind = "winnings"
	NotificationKindWallet   NotificationKind = "wallet"
)

// Notification is a user-facing message record, created alongside each
// winnings ledger entry
type Notification struct {
	ID            int64            `db:"id"`
	UserID        string           `db:"user_id"`
	Kind          NotificationKind `db:"kind"`
	Title         string           `db:"title"`
	Body          string           `db:"body"`
	LedgerEntryID *int64           `db:"ledger_entry_id"`
	Read          bool             `db:"read"`
	CreatedAt     time.Time        `db:"created_at"`
}
