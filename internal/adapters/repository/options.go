package repository

import (
	"time"

	"github.com/okian/energy-analytics/pkg/logger"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithTTL sets how long an idle session survives a sweep.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions bounds the number of sessions held in memory.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
