package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Locker guards the harvest so that, with several instances deployed, only
// one runs it. Backed by a Postgres advisory lock in production.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

// runTimeout bounds a scheduled harvest.
const runTimeout = 30 * time.Minute

// Scheduler fires the harvest once a day at a fixed UTC hour.
type Scheduler struct {
	hour int
	lock Locker
	run  func(ctx context.Context) error
	log  *zap.Logger
	now  func() time.Time
}

func New(hourUTC int, lock Locker, run func(ctx context.Context) error, log *zap.Logger) *Scheduler {
	if hourUTC < 0 || hourUTC > 23 {
		hourUTC = 6
	}
	return &Scheduler{hour: hourUTC, lock: lock, run: run, log: log, now: time.Now}
}

// Start runs the schedule loop until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		for {
			next := nextRunAt(s.now().UTC(), s.hour)
			s.log.Info("next scheduled harvest", zap.Time("at", next))

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			s.runOnce(ctx)
		}
	}()
}

// runOnce takes the instance lock and runs the harvest. If another instance
// holds the lock, this turn is skipped; the other instance is doing the work.
func (s *Scheduler) runOnce(ctx context.Context) {
	got, err := s.lock.TryLock(ctx)
	if err != nil {
		s.log.Error("scheduler lock error", zap.Error(err))
		return
	}
	if !got {
		s.log.Info("harvest lock held elsewhere, skipping this run")
		return
	}
	defer func() {
		if err := s.lock.Unlock(ctx); err != nil {
			s.log.Warn("scheduler unlock error", zap.Error(err))
		}
	}()

	rctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	s.log.Info("scheduled harvest starting")
	if err := s.run(rctx); err != nil {
		s.log.Error("scheduled harvest failed", zap.Error(err))
	}
}

// nextRunAt returns the next occurrence of hourUTC strictly after now.
func nextRunAt(now time.Time, hourUTC int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
