package models

import "fmt"

// Period identifies one of the four score checkpoints that trigger a payout
type Period string

const (
	PeriodQ1    Period = "q1"
	PeriodQ2    Period = "q2"
	PeriodQ3    Period = "q3"
	PeriodFinal Period = "final"
)

// Periods lists all periods in game order
var Periods = []Period{PeriodQ1, PeriodQ2, PeriodQ3, PeriodFinal}

// ParsePeriod validates a raw period string
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodQ1, PeriodQ2, PeriodQ3, PeriodFinal:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period %q (must be one of q1, q2, q3, final)", s)
}

// IsValid checks if the period is one of the known checkpoints
func (p Period) IsValid() bool {
	_, err := ParsePeriod(string(p))
	return err == nil
}
