// Package scheduler runs the dashboard's periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/okian/energy-analytics/internal/adapters/repository"
	"github.com/okian/energy-analytics/pkg/logger"
	"github.com/okian/energy-analytics/pkg/metrics"
)

// Default job intervals.
const (
	defaultSweepInterval   = 5 * time.Minute
	defaultMetricsInterval = 10 * time.Second
)

// Scheduler periodically sweeps idle sessions and refreshes system gauges.
type Scheduler struct {
	cron            *gocron.Scheduler
	sessions        repository.SessionStore
	sweepInterval   time.Duration
	metricsInterval time.Duration
	now             func() time.Time
	log             logger.Logger

	stopOnce sync.Once
}

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithSweepInterval sets how often idle sessions are swept.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithMetricsInterval sets how often system gauges are refreshed.
func WithMetricsInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.metricsInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for the sweep cutoff.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scheduler for sessions.
func New(sessions repository.SessionStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:            gocron.NewScheduler(time.UTC),
		sessions:        sessions,
		sweepInterval:   defaultSweepInterval,
		metricsInterval: defaultMetricsInterval,
		now:             time.Now,
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the jobs and runs them asynchronously until ctx is done
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.sessions != nil {
		if _, err := s.cron.Every(s.sweepInterval).SingletonMode().Do(func() { s.Sweep(ctx) }); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
	}
	if _, err := s.cron.Every(s.metricsInterval).SingletonMode().Do(UpdateSystemMetrics); err != nil {
		return fmt.Errorf("schedule system metrics: %w", err)
	}

	s.cron.StartAsync()
	s.log.Info(ctx, "scheduler started",
		logger.Duration("sweepInterval", s.sweepInterval),
		logger.Duration("metricsInterval", s.metricsInterval),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop stops the scheduler and cancels any future jobs. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cron.Stop()
		s.log.Info(context.Background(), "scheduler stopped")
	})
}

// Sweep drops idle sessions once and returns how many were removed.
func (s *Scheduler) Sweep(ctx context.Context) int {
	removed := s.sessions.Sweep(ctx, s.now())
	metrics.UpdateActiveSessions(s.sessions.Count(ctx))
	return removed
}

// UpdateSystemMetrics samples memory and goroutine gauges.
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
