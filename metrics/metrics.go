package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reconciliation outcome labels
const (
	OutcomePaid            = "paid"
	OutcomeNoWinner        = "no_winner"
	OutcomeAlreadyAssigned = "already_assigned"
	OutcomeError           = "error"
)

var (
	// ReconciliationsTotal counts reconciliation attempts by outcome
	ReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "squarepicks",
		Name:      "reconciliations_total",
		Help:      "Number of period reconciliation attempts by outcome.",
	}, []string{"outcome"})

	// WinnersPaidTotal counts distinct users paid winnings
	WinnersPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "squarepicks",
		Name:      "winners_paid_total",
		Help:      "Number of distinct users paid winnings.",
	})

	// PayoutCentsTotal accumulates cents paid out as winnings
	PayoutCentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "squarepicks",
		Name:      "payout_cents_total",
		Help:      "Total cents paid out as winnings.",
	})

	// SweepCyclesTotal counts completed sweep cycles
	SweepCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "squarepicks",
		Name:      "sweep_cycles_total",
		Help:      "Number of completed sweep cycles.",
	})

	// SweepDuePeriods reports how many (board, period) pairs the last sweep found due
	SweepDuePeriods = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "squarepicks",
		Name:      "sweep_due_periods",
		Help:      "Due (board, period) pairs found by the last sweep cycle.",
	})
)

// ObserveResult records the metrics for one reconciliation result
func ObserveResult(winnersPaid int, perWinnerCents int64, alreadyAssigned bool) {
	switch {
	case alreadyAssigned:
		ReconciliationsTotal.WithLabelValues(OutcomeAlreadyAssigned).Inc()
	case winnersPaid == 0:
		ReconciliationsTotal.WithLabelValues(OutcomeNoWinner).Inc()
	default:
		ReconciliationsTotal.WithLabelValues(OutcomePaid).Inc()
		WinnersPaidTotal.Add(float64(winnersPaid))
		PayoutCentsTotal.Add(float64(perWinnerCents) * float64(winnersPaid))
	}
}
