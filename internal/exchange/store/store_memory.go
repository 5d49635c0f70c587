package store

import (
	"context"
	"sync"
	"time"

	"diyivi/internal/exchange/models"
	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

// InMemoryStore keeps exchange sessions in process memory. Sessions are
// TTL-scoped and single-process by design; expired ones are reclaimed by the
// periodic sweep.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	clock    func() time.Time
}

type Option func(*InMemoryStore)

// WithClock injects a clock, used by tests to drive expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *InMemoryStore) {
		s.clock = clock
	}
}

// New constructs an empty in-memory exchange session store.
func New(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[string]*models.Session),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = clone(sess)
	return nil
}

// Get returns a copy of the session. A session past its expiry is flipped to
// expired before it is returned, so reads never observe a stale live status.
func (s *InMemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeSessionNotFound, "session not found")
	}
	sess.ExpireIfDue(s.clock())
	return clone(sess), nil
}

// Update runs mutate on the stored session under the write lock and returns a
// copy of the result. The callback sees current state including any lazy
// expiry flip, which serializes read-check-write per session id: of two
// concurrent resolutions exactly one observes a live session.
func (s *InMemoryStore) Update(_ context.Context, id string, mutate func(*models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeSessionNotFound, "session not found")
	}
	sess.ExpireIfDue(s.clock())
	if err := mutate(sess); err != nil {
		return nil, err
	}
	return clone(sess), nil
}

// SweepExpired removes sessions whose expiry has passed and returns how many
// were reclaimed. Correctness does not depend on the sweep; it only frees
// memory.
func (s *InMemoryStore) SweepExpired(_ context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func clone(sess *models.Session) *models.Session {
	copied := *sess
	copied.GroupKeys = append([]string(nil), sess.GroupKeys...)
	copied.Attributes = append([]yivi.Attribute(nil), sess.Attributes...)
	copied.Request = cloneConDisCon(sess.Request)
	if sess.DisclosedValues != nil {
		values := make(map[yivi.Attribute]yivi.TranslatedString, len(sess.DisclosedValues))
		for id, value := range sess.DisclosedValues {
			translated := make(yivi.TranslatedString, len(value))
			for lang, text := range value {
				translated[lang] = text
			}
			values[id] = translated
		}
		copied.DisclosedValues = values
	}
	if sess.ResolvedAt != nil {
		at := *sess.ResolvedAt
		copied.ResolvedAt = &at
	}
	return &copied
}

func cloneConDisCon(condiscon yivi.ConDisCon) yivi.ConDisCon {
	if condiscon == nil {
		return nil
	}
	copied := make(yivi.ConDisCon, len(condiscon))
	for i, dis := range condiscon {
		copiedDis := make(yivi.Dis, len(dis))
		for j, con := range dis {
			copiedDis[j] = append(yivi.Con(nil), con...)
		}
		copied[i] = copiedDis
	}
	return copied
}
