// Package scheduler runs the store's periodic jobs on fixed intervals with
// explicit cancellation. Jobs share nothing; each fires, runs to completion
// and waits for its next tick. The clock is injectable so tests advance
// virtual time instead of sleeping.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is one periodic task. Run errors are logged, never fatal: the job
// keeps its schedule.
type Job struct {
	// Name identifies the job in logs.
	Name string

	// Interval is the fixed period between runs.
	Interval time.Duration

	// RunOnStart fires the job once immediately when the scheduler starts.
	RunOnStart bool

	// Run does the work. It receives the scheduler's context and the tick
	// time.
	Run func(ctx context.Context, now time.Time) error
}

// Ticker abstracts time.Ticker for virtual-time tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock supplies the current time and tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type realTicker struct{ t *time.Ticker }

func (rt realTicker) C() <-chan time.Time { return rt.t.C }
func (rt realTicker) Stop()               { rt.t.Stop() }

type realClock struct{}

func (realClock) Now() time.Time                { return time.Now() }
func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

// Scheduler owns a set of jobs and their lifecycle. All jobs stop when the
// start context is cancelled or Stop is called; teardown is guaranteed to
// cancel every ticker so no job mutates state after disposal.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	jobs    []Job
	running bool
	stopCh  chan struct{}
	group   *errgroup.Group
}

// New creates a scheduler using the wall clock.
func New() *Scheduler {
	return NewWithClock(realClock{})
}

// NewWithClock creates a scheduler with an explicit clock.
func NewWithClock(clock Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// Add registers a job. Jobs cannot be added after Start.
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("job %q has non-positive interval %v", job.Name, job.Interval)
	}
	if job.Run == nil {
		return fmt.Errorf("job %q has no run function", job.Name)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start launches one goroutine per job. Returns an error if already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.group = &errgroup.Group{}
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	group := s.group
	s.mu.Unlock()

	for _, job := range jobs {
		job := job
		group.Go(func() error {
			s.runJob(ctx, job)
			return nil
		})
	}

	slog.InfoContext(ctx, "Scheduler started", "jobs", len(jobs))
	return nil
}

// Stop cancels all jobs and waits for them to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	group := s.group
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(ctx, "Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler has been started and not stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ticker := s.clock.NewTicker(job.Interval)
	defer ticker.Stop()

	if job.RunOnStart {
		s.fire(ctx, job, s.clock.Now())
	}

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case now := <-ticker.C():
			s.fire(ctx, job, now)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, job Job, now time.Time) {
	if err := job.Run(ctx, now); err != nil {
		slog.ErrorContext(ctx, "Scheduled job failed", "job", job.Name, "error", err)
	}
}
