package sweeper

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"squarepicks/metrics"
	"squarepicks/service"
)

const defaultInterval = 30 * time.Second

// Sweeper periodically reconciles every (board, period) pair whose game has a
// posted score but no assigned winner. Each pair runs in its own transaction
// so one failure never blocks the rest of the sweep.
type Sweeper struct {
	reconciler service.ReconcilerService
	interval   time.Duration
}

// New creates a sweeper with the given interval
func New(reconciler service.ReconcilerService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{
		reconciler: reconciler,
		interval:   interval,
	}
}

// Start begins the sweep loop. It returns a stop function that blocks until
// the loop has exited.
func (s *Sweeper) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		log.WithField("interval", s.interval).Info("Reconciliation sweeper started")

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Sweep once at startup so past-due periods settle without waiting
		// a full interval
		s.sweep(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Reconciliation sweeper shutting down (context cancelled)")
				return
			case <-stopChan:
				log.Info("Reconciliation sweeper shutting down (stop requested)")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
		<-doneChan
	}
}

// sweep runs one full pass over the due periods
func (s *Sweeper) sweep(ctx context.Context) {
	due, err := s.reconciler.ListDue(ctx)
	if err != nil {
		log.Errorf("Failed to list due periods: %v", err)
		return
	}

	metrics.SweepDuePeriods.Set(float64(len(due)))
	if len(due) == 0 {
		metrics.SweepCyclesTotal.Inc()
		return
	}

	var settled, skipped, failed int
	for _, d := range due {
		result, err := s.reconciler.ReconcilePeriod(ctx, d.GameID, d.BoardID, d.Period)
		if err != nil {
			// Scores can disappear between the list query and the
			// reconcile transaction when a correction is in flight
			if errors.Is(err, service.ErrScoresNotReady) {
				skipped++
				continue
			}
			failed++
			metrics.ReconciliationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			log.WithFields(log.Fields{
				"boardID": d.BoardID,
				"gameID":  d.GameID,
				"period":  d.Period,
			}).Errorf("Failed to reconcile period: %v", err)
			continue
		}

		metrics.ObserveResult(result.WinnersPaid, result.PerWinnerCents, result.AlreadyAssigned)
		if result.AlreadyAssigned {
			skipped++
		} else {
			settled++
		}
	}

	metrics.SweepCyclesTotal.Inc()
	log.WithFields(log.Fields{
		"due":     len(due),
		"settled": settled,
		"skipped": skipped,
		"failed":  failed,
	}).Info("Sweep cycle complete")
}
