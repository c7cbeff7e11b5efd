package scheduler

import (
	"context"
	"testing"
	"time"
)

// fakeClock hands every job the same manually driven tick channel so tests
// advance time by sending on it instead of sleeping.
type fakeClock struct {
	now   time.Time
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		ticks: make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time                 { return c.now }
func (c *fakeClock) NewTicker(time.Duration) Ticker { return fakeTicker{c.ticks} }

type fakeTicker struct{ ch chan time.Time }

func (t fakeTicker) C() <-chan time.Time { return t.ch }
func (fakeTicker) Stop()                 {}

func waitForRun(t *testing.T, runs <-chan time.Time) time.Time {
	t.Helper()
	select {
	case ts := <-runs:
		return ts
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
		return time.Time{}
	}
}

func TestAddValidation(t *testing.T) {
	run := func(context.Context, time.Time) error { return nil }

	s := New()
	if err := s.Add(Job{Name: "no-interval", Run: run}); err == nil {
		t.Error("expected error for non-positive interval")
	}
	if err := s.Add(Job{Name: "no-run", Interval: time.Minute}); err == nil {
		t.Error("expected error for nil run function")
	}
	if err := s.Add(Job{Name: "ok", Interval: time.Minute, Run: run}); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}
}

func TestAddAfterStartFails(t *testing.T) {
	s := NewWithClock(newFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	err := s.Add(Job{
		Name:     "late",
		Interval: time.Minute,
		Run:      func(context.Context, time.Time) error { return nil },
	})
	if err == nil {
		t.Error("expected error adding a job to a running scheduler")
	}
}

func TestStartTwiceFails(t *testing.T) {
	s := NewWithClock(newFakeClock())
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	if err := s.Start(ctx); err == nil {
		t.Error("expected error on second start")
	}
}

func TestRunOnStartFiresImmediately(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock)
	runs := make(chan time.Time, 1)
	if err := s.Add(Job{
		Name:       "eager",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(_ context.Context, now time.Time) error {
			runs <- now
			return nil
		},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	// No tick was sent; the first run comes from RunOnStart alone.
	if got := waitForRun(t, runs); !got.Equal(clock.now) {
		t.Errorf("run time: got %v, want %v", got, clock.now)
	}
}

func TestTickDrivesJob(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock)
	runs := make(chan time.Time, 1)
	if err := s.Add(Job{
		Name:     "ticked",
		Interval: time.Hour,
		Run: func(_ context.Context, now time.Time) error {
			runs <- now
			return nil
		},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	tick := clock.now.Add(time.Hour)
	clock.ticks <- tick
	if got := waitForRun(t, runs); !got.Equal(tick) {
		t.Errorf("run time: got %v, want %v", got, tick)
	}
}

func TestJobErrorsDoNotStopSchedule(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock)
	runs := make(chan time.Time, 1)
	calls := 0
	if err := s.Add(Job{
		Name:     "flaky",
		Interval: time.Hour,
		Run: func(_ context.Context, now time.Time) error {
			calls++
			runs <- now
			if calls == 1 {
				return context.DeadlineExceeded
			}
			return nil
		},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop(context.Background())

	clock.ticks <- clock.now.Add(time.Hour)
	waitForRun(t, runs)
	clock.ticks <- clock.now.Add(2 * time.Hour)
	waitForRun(t, runs)
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
}

func TestStopTerminatesJobs(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock)
	if err := s.Add(Job{
		Name:     "idle",
		Interval: time.Hour,
		Run:      func(context.Context, time.Time) error { return nil },
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("scheduler should report running after start")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should report stopped")
	}
	// A second stop is a no-op.
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestStopTimesOutOnStuckJob(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(clock)
	release := make(chan struct{})
	started := make(chan struct{})
	if err := s.Add(Job{
		Name:       "stuck",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(context.Context, time.Time) error {
			close(started)
			<-release
			return nil
		},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Stop(ctx); err != context.DeadlineExceeded {
		t.Errorf("got %v, want deadline exceeded", err)
	}
	close(release)
}
