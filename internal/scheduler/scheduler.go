// Package scheduler runs the service's periodic jobs, such as the daily
// quota reset.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultResetSchedule resets the daily ledger at midnight.
const DefaultResetSchedule = "0 0 * * *"

// Scheduler runs named jobs on standard five-field cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler evaluating schedules in loc.
func New(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{})),
			cron.WithLogger(cronLogger{}),
		),
	}
}

// Add registers job under name to run on spec.
func (s *Scheduler) Add(name, spec string, job func()) error {
	id, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		job()
		slog.Info("Scheduled job finished", "job", name, "duration_ms", time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", name, spec, err)
	}
	slog.Info("Job scheduled", "job", name, "schedule", spec, "next", s.cron.Entry(id).Next)
	return nil
}

// Next returns when the earliest job runs next, or the zero time when
// nothing is scheduled or the scheduler is stopped.
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.Warn("Scheduled jobs still running at shutdown")
	}
}

// ValidateSchedule reports whether spec is a valid five-field cron
// expression.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// cronLogger routes cron's logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
