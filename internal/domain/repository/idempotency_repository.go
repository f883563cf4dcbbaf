package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses per restaurant and key.
type IdempotencyRepository interface {
	// Find returns nil when nothing is stored under the key.
	Find(ctx context.Context, restaurantID uuid.UUID, key string) (*entity.StoredResponse, error)
	// Save stores resp, replacing an expired entry under the same key.
	Save(ctx context.Context, resp *entity.StoredResponse) error
	// Purge deletes entries that expired before t and reports how many.
	Purge(ctx context.Context, t time.Time) (int64, error)
}
