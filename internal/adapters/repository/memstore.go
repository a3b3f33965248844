package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/energy-analytics/pkg/logger"
	"github.com/okian/energy-analytics/pkg/metrics"
)

// MemoryStore is a mutex-guarded in-memory SessionStore.
type MemoryStore struct {
	mu          sync.RWMutex
	byID        map[string]Session
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	log         logger.Logger
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore constructs a session store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:        make(map[string]Session),
		ttl:         2 * time.Hour,
		maxSessions: 1_000,
		now:         time.Now,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements SessionStore.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Put implements SessionStore.Put. UpdatedAt is stamped with the store clock.
func (s *MemoryStore) Put(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSession)
	}
	now := s.now()
	sess.UpdatedAt = now
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}

	s.mu.Lock()
	if _, exists := s.byID[sess.ID]; !exists && len(s.byID) >= s.maxSessions {
		if victim := s.oldestLocked(); victim != "" {
			delete(s.byID, victim)
			s.log.Debug(ctx, "session evicted", logger.String("session", victim))
		}
	}
	s.byID[sess.ID] = sess
	n := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	return nil
}

// Touch implements SessionStore.Touch.
func (s *MemoryStore) Touch(_ context.Context, id string) (Session, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.UpdatedAt = now
	s.byID[id] = sess
	return sess, nil
}

// Delete implements SessionStore.Delete.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.byID, id)
	n := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	return nil
}

// Sweep implements SessionStore.Sweep.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.byID {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.byID, id)
			removed++
		}
	}
	n := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateActiveSessions(n)
	if removed > 0 {
		s.log.Info(ctx, "idle sessions swept", logger.Int("removed", removed), logger.Int("remaining", n))
	}
	return removed
}

// Count implements SessionStore.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// oldestLocked returns the least recently updated session ID. Callers hold mu.
// A linear scan is fine at the configured session bounds.
func (s *MemoryStore) oldestLocked() string {
	var (
		victim string
		oldest time.Time
	)
	for id, sess := range s.byID {
		if victim == "" || sess.UpdatedAt.Before(oldest) {
			victim, oldest = id, sess.UpdatedAt
		}
	}
	return victim
}
