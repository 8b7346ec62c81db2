// Package scheduler owns the periodic background tasks and any
// deferred one-shot work. Tasks run cooperatively: each tick does a
// bounded amount of work against the store and returns, and a tick's
// failure is logged and retried on the next cadence.
package scheduler

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron with named duration jobs and cancellable
// one-shot jobs. Shutdown cancels all periodic timers and any pending
// one-shot restart timers.
type Scheduler struct {
	sched   gocron.Scheduler
	running atomic.Bool
}

// New creates a stopped Scheduler
func New() (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{sched: sched}, nil
}

// Every registers a named periodic task. Ticks never overlap: a tick
// still running when the next fires causes the next to be rescheduled.
func (s *Scheduler) Every(interval time.Duration, name string, task func()) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.guarded(name, task)),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// Once registers a named one-shot task after the given delay
func (s *Scheduler) Once(delay time.Duration, name string, task func()) error {
	_, err := s.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(delay))),
		gocron.NewTask(s.guarded(name, task)),
		gocron.WithName(name),
	)
	return err
}

// guarded keeps a panicking tick from taking the scheduler down; the
// fixed cadence is the retry mechanism.
func (s *Scheduler) guarded(name string, task func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background task panicked", "task", name, "panic", r)
			}
		}()
		task()
	}
}

// Start begins dispatching jobs
func (s *Scheduler) Start() {
	s.sched.Start()
	s.running.Store(true)
	slog.Info("Scheduler started", "jobs", len(s.sched.Jobs()))
}

// Running reports whether the background tasks are active
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Shutdown cancels all timers and waits for running ticks
func (s *Scheduler) Shutdown() error {
	s.running.Store(false)
	return s.sched.Shutdown()
}
