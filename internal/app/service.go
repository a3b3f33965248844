// Package service provides the dashboard pipeline behind the HTTP API: it
// resolves sessions, accepts uploads and renders views.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/energy-analytics/internal/adapters/repository"
	"github.com/okian/energy-analytics/internal/domain/advice"
	"github.com/okian/energy-analytics/internal/domain/forecast"
	"github.com/okian/energy-analytics/pkg/logger"
	"github.com/okian/energy-analytics/pkg/metrics"
)

// Service renders dashboard views for sessions.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	predictor   forecast.Predictor
	modelErr    error
	recommender advice.Recommender
	rulesErr    error
	sessions    repository.SessionStore

	// Configuration
	dataPath       string
	maxUploadBytes int64
	now            func() time.Time

	// State
	started bool
	renders atomic.Int64
	uploads atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPredictor sets the loaded forecast model.
func WithPredictor(p forecast.Predictor) Option {
	return func(s *Service) {
		s.predictor = p
	}
}

// WithModelError records why the model could not be loaded. Every render
// halts while it is set.
func WithModelError(err error) Option {
	return func(s *Service) {
		s.modelErr = err
	}
}

// WithRecommender sets the tip source.
func WithRecommender(r advice.Recommender) Option {
	return func(s *Service) {
		if r != nil {
			s.recommender = r
		}
	}
}

// WithRulesError records why the recommendation rules could not be loaded.
// Every render halts while it is set.
func WithRulesError(err error) Option {
	return func(s *Service) {
		s.rulesErr = err
	}
}

// WithDataPath sets the default dataset location, re-read on every render.
func WithDataPath(path string) Option {
	return func(s *Service) {
		s.dataPath = path
	}
}

// WithSessionStore sets the session store.
func WithSessionStore(store repository.SessionStore) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// MaxUploadLimit is the largest accepted upload cap.
const MaxUploadLimit int64 = 1 << 30

// WithMaxUploadBytes caps the size of a single upload. Values above
// MaxUploadLimit are clamped to it.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = min(n, MaxUploadLimit)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Without WithPredictor or WithModelError every
// render halts with the model-missing message.
func New(opts ...Option) *Service {
	s := &Service{
		recommender:    advice.Default(),
		maxUploadBytes: 10 << 20,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sessions == nil {
		s.sessions = repository.NewMemoryStore(repository.WithClock(s.now))
	}
	return s
}

// Start marks the service ready and publishes the model state.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("dashboard")
	}

	metrics.SetModelLoaded(s.modelReady())
	switch {
	case s.rulesErr != nil:
		s.logger.Error(ctx, "recommendations unavailable, dashboard halted", logger.Error(s.rulesErr))
	case !s.modelReady():
		s.logger.Error(ctx, "forecast model unavailable, dashboard halted", logger.Error(s.modelErr))
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("dataPath", s.dataPath),
		logger.Bool("modelLoaded", s.modelReady()),
		logger.Int64("maxUploadBytes", s.maxUploadBytes),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) modelReady() bool {
	return s.modelErr == nil && s.predictor != nil
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Sessions exposes the session store, e.g. for the sweep job.
func (s *Service) Sessions() repository.SessionStore {
	return s.sessions
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"dataPath":       s.dataPath,
		"modelLoaded":    s.modelReady(),
		"rulesLoaded":    s.rulesErr == nil,
		"maxUploadBytes": s.maxUploadBytes,
		"renders":        s.renders.Load(),
		"uploads":        s.uploads.Load(),
	}

	if s.started {
		n := s.sessions.Count(context.Background())
		stats["activeSessions"] = n
		metrics.UpdateActiveSessions(n)
	}

	return stats
}
