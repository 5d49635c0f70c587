package store

import (
	"context"
	"time"

	"diyivi/internal/exchange/models"
)

// Store persists exchange sessions keyed by their opaque id.
//
// Error Contract:
// - Get and Update return a domain error with CodeSessionNotFound when the
//   id is unknown
// - Update serializes the read-check-write sequence per session id: the
//   mutate callback runs under the store's write lock, so two concurrent
//   updates against the same session observe each other's transitions
type Store interface {
	Save(ctx context.Context, sess *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, id string, mutate func(*models.Session) error) (*models.Session, error)
	SweepExpired(ctx context.Context, now time.Time) int
}
