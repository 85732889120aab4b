package models

// SplitPayout computes the equal per-winner payout for a period: the board's
// period payout divided by the distinct winner count, rounded half-up to the
// nearest cent. The sum of the rounded shares need not exactly equal the
// payout when the count does not divide it evenly; that residual is accepted
// and not separately reconciled.
func SplitPayout(payoutCents int64, winnerCount int) int64 {
	if winnerCount <= 0 {
		return 0
	}
	n := int64(winnerCount)
	return (payoutCents*2 + n) / (n * 2)
}

// ReconcileResult is the outcome of reconciling one (board, period) pair.
// WinningIndex is nil when the period resolved with no winner. AlreadyAssigned
// reports that the period had been resolved by an earlier call and this run
// was a no-op.
type ReconcileResult struct {
	BoardID         string
	Period          Period
	WinningValue    string
	WinningIndex    *int
	WinnersPaid     int
	PerWinnerCents  int64
	AlreadyAssigned bool
}
