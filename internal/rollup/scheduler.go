package rollup

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eventlens/eventlens/internal/db"
	"github.com/eventlens/eventlens/internal/logging"
)

// Fire times per recurrence, mirroring the production cron schedule:
// daily at 01:00 UTC, weekly Friday at 01:00 UTC, monthly on the 1st
// at 00:00 UTC.
const (
	dailyHour  = 1
	weeklyHour = 1
	weeklyDay  = time.Friday
)

// Scheduler drives the rollup job from wall-clock time. Each enabled
// recurrence runs in its own goroutine; at most one run per recurrence
// is in flight at a time, and a failed run is simply retried at the
// next tick. The clock is injectable for tests.
type Scheduler struct {
	job     *Job
	periods []db.PeriodType
	log     *logrus.Entry
	now     func() time.Time
}

// NewScheduler creates a scheduler for the given recurrence kinds
func NewScheduler(job *Job, periods []db.PeriodType, log *logrus.Entry) *Scheduler {
	return &Scheduler{
		job:     job,
		periods: periods,
		log:     log.WithField(logging.StandardFields.Component, logging.ComponentNames.Scheduler),
		now:     time.Now,
	}
}

// Start runs the scheduler until the context is canceled. It blocks;
// the returned error is the context's cancellation cause.
func (s *Scheduler) Start(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, period := range s.periods {
		period := period
		group.Go(func() error {
			return s.runLoop(ctx, period)
		})
	}

	return group.Wait()
}

// runLoop sleeps until each next fire time for one recurrence and
// triggers the job. Job failures are logged and swallowed here: the
// retry policy is the next scheduled tick, nothing more.
func (s *Scheduler) runLoop(ctx context.Context, period db.PeriodType) error {
	for {
		next := NextRun(s.now(), period)
		s.log.WithFields(logrus.Fields{
			logging.StandardFields.Period: string(period),
			"next_run":                    next.Format(time.RFC3339),
		}).Info("Rollup scheduled")

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := s.job.Run(ctx, period, s.now()); err != nil {
			s.log.WithFields(logrus.Fields{
				logging.StandardFields.Period: string(period),
				logging.StandardFields.Error:  err.Error(),
			}).Error("Rollup run failed, will retry on next tick")
		}
	}
}

// NextRun returns the first fire time strictly after the given instant
// for one recurrence kind. Exported so schedule arithmetic is testable
// without a running scheduler.
func NextRun(after time.Time, period db.PeriodType) time.Time {
	after = after.UTC()

	switch period {
	case db.PeriodWeek:
		next := time.Date(after.Year(), after.Month(), after.Day(), weeklyHour, 0, 0, 0, time.UTC)
		offset := (int(weeklyDay) - int(next.Weekday()) + 7) % 7
		next = next.AddDate(0, 0, offset)
		if !next.After(after) {
			next = next.AddDate(0, 0, 7)
		}
		return next

	case db.PeriodMonth:
		next := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, time.UTC)
		if !next.After(after) {
			next = next.AddDate(0, 1, 0)
		}
		return next

	default:
		next := time.Date(after.Year(), after.Month(), after.Day(), dailyHour, 0, 0, 0, time.UTC)
		if !next.After(after) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
}
