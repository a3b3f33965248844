// Package repository holds per-browser dashboard sessions.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/energy-analytics/internal/domain/model"
)

// Session is the state of one browser between reruns.
type Session struct {
	ID string
	// Upload is the dataset the user uploaded; nil means the default file is used.
	Upload    *model.Dataset
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasUpload reports whether the session carries its own dataset.
func (s Session) HasUpload() bool { return s.Upload != nil }

// NewSession returns an empty session with a fresh random ID.
func NewSession(now time.Time) Session {
	return Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
}

// ValidID reports whether id has the shape NewSession produces.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SessionStore provides read/write access to sessions.
type SessionStore interface {
	// Get returns the session or ErrSessionNotFound.
	Get(ctx context.Context, id string) (Session, error)
	// Put inserts or replaces a session, evicting the least recently updated
	// one when the store is full.
	Put(ctx context.Context, s Session) error
	// Touch bumps UpdatedAt in place and returns the stored session, or
	// ErrSessionNotFound. Fields other than UpdatedAt are never rewritten.
	Touch(ctx context.Context, id string) (Session, error)
	// Delete removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error
	// Sweep drops sessions idle since before now minus the TTL and returns how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) int
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
