// Package session holds the lifecycle state shared by exchange and signature
// sessions: creation, lazy expiry, exactly-once resolution, and
// initiator-only cancellation.
package session

import (
	"time"

	dErrors "diyivi/pkg/domain-errors"
)

// Status enumerates the persisted session states. Between creation and
// resolution a session is implicitly waiting for the responder; there is no
// separate persisted state for that.
type Status string

const (
	StatusCreated   Status = "created"
	StatusResolved  Status = "resolved"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusExpired || s == StatusCancelled
}

// Session is the base state for exchange and signature sessions. It is owned
// exclusively by its store from creation to terminal state; all mutation goes
// through the store's serialized update path.
type Session struct {
	ID        string
	Status    Status
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New enters the Created state atomically with construction.
func New(id string, now time.Time, ttl time.Duration) Session {
	return Session{
		ID:        id,
		Status:    StatusCreated,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ExpireIfDue lazily flips the session to Expired when its expiry has passed.
// Every read and write applies this first, so no resolution can be accepted
// after expiry even under concurrent access. Reports whether the status
// changed.
func (s *Session) ExpireIfDue(now time.Time) bool {
	if s.Status.Terminal() {
		return false
	}
	if !now.Before(s.ExpiresAt) {
		s.Status = StatusExpired
		return true
	}
	return false
}

// EnsureActive applies lazy expiry and returns the domain error matching the
// session's state when it can no longer accept a response.
func (s *Session) EnsureActive(now time.Time) error {
	s.ExpireIfDue(now)
	switch s.Status {
	case StatusResolved:
		return dErrors.New(dErrors.CodeAlreadyResolved, "session is already resolved")
	case StatusExpired:
		return dErrors.New(dErrors.CodeSessionExpired, "session has expired")
	case StatusCancelled:
		return dErrors.New(dErrors.CodeCancelled, "session was cancelled by its initiator")
	default:
		return nil
	}
}

// Resolve performs the exactly-once transition to Resolved. A second attempt
// fails with already_resolved and does not alter state.
func (s *Session) Resolve(now time.Time) error {
	if err := s.EnsureActive(now); err != nil {
		return err
	}
	s.Status = StatusResolved
	return nil
}

// Cancel transitions to Cancelled. Permitted only before resolution; a
// cancelled or expired session cancels idempotently.
func (s *Session) Cancel(now time.Time) error {
	s.ExpireIfDue(now)
	switch s.Status {
	case StatusResolved:
		return dErrors.New(dErrors.CodeAlreadyResolved, "session is already resolved")
	case StatusCancelled, StatusExpired:
		return nil
	default:
		s.Status = StatusCancelled
		return nil
	}
}
