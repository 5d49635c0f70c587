package store

import (
	"context"
	"time"

	"diyivi/internal/signature/models"
)

// Store persists signature sessions keyed by their opaque id. Same error and
// serialization contract as the exchange store: unknown ids surface as
// CodeSessionNotFound and Update runs its callback under the write lock.
type Store interface {
	Save(ctx context.Context, sess *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, id string, mutate func(*models.Session) error) (*models.Session, error)
	SweepExpired(ctx context.Context, now time.Time) int
}
