// Package schedule runs a job at the top of the next hour and then on a fixed interval.
package schedule

import (
	"context"
	"time"

	"github.com/pfrederiksen/dxp-leaderboard/internal/logger"
)

// DefaultInterval is the gap between posts after the first one.
const DefaultInterval = time.Hour

// UntilNextHour returns the time from now to the start of the next hour.
func UntilNextHour(now time.Time) time.Duration {
	next := now.Truncate(time.Hour).Add(time.Hour)
	return next.Sub(now)
}

// Scheduler drives a job. Clock fields can be swapped in tests.
type Scheduler struct {
	Interval time.Duration
	Now      func() time.Time
	After    func(time.Duration) <-chan time.Time
}

// New returns a Scheduler using the wall clock.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		Interval: interval,
		Now:      time.Now,
		After:    time.After,
	}
}

// Run waits until the next hour, then calls job every Interval until ctx is done.
// Post times stay on the hourly grid however long job takes; a slot that has
// already passed when job returns is skipped. Job errors are logged and never
// stop the loop. Run returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) error {
	now := s.Now()
	next := now.Add(UntilNextHour(now))
	for {
		now = s.Now()
		if skipped := s.skipPassed(&next, now); skipped > 0 {
			logger.Warn("Run overran its slot, skipping", logger.Fields{"skipped": skipped})
		}
		wait := next.Sub(now)
		logger.Info("Posting next update", logger.Fields{"in": wait.Round(time.Second).String()})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.After(wait):
		}

		if err := job(ctx); err != nil {
			logger.Error("Scheduled run failed", nil, err)
		}
		next = next.Add(s.Interval)
	}
}

// skipPassed moves next forward by whole intervals until it is after now and
// reports how many slots it stepped over.
func (s *Scheduler) skipPassed(next *time.Time, now time.Time) int {
	skipped := 0
	for !next.After(now) {
		*next = next.Add(s.Interval)
		skipped++
	}
	return skipped
}
