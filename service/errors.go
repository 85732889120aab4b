package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for reconciliation preconditions. GameNotFound and
// BoardNotFound indicate caller data errors and are not retryable;
// ScoresNotReady is retryable once the period's scores post.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrBoardNotFound  = errors.New("board not found")
	ErrScoresNotReady = errors.New("scores not ready")
)

// TransactionError wraps a storage or commit failure inside the
// reconciliation transaction. The operation is safe to retry: the idempotency
// guard is re-checked inside the transaction, so a retry after a partial
// failure never double-pays.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("reconciliation transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
