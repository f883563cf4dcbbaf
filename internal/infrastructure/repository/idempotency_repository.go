package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/caisse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) Find(ctx context.Context, restaurantID uuid.UUID, key string) (*entity.StoredResponse, error) {
	var resp entity.StoredResponse
	err := conn(ctx, r.db).
		Where("restaurant_id = ? AND idempotency_key = ?", restaurantID, key).
		First(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stored response: %w", err)
	}
	return &resp, nil
}

// Save clears an entry holding the same key that expired by resp.CreatedAt
// (now when unset); the unique index would otherwise reject the insert.
func (r *idempotencyRepository) Save(ctx context.Context, resp *entity.StoredResponse) error {
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("restaurant_id = ? AND idempotency_key = ? AND expires_at <= ?", resp.RestaurantID, resp.Key, resp.CreatedAt).
			Delete(&entity.StoredResponse{}).Error; err != nil {
			return fmt.Errorf("failed to clear expired response: %w", err)
		}
		if err := tx.Create(resp).Error; err != nil {
			return fmt.Errorf("failed to store response: %w", err)
		}
		return nil
	})
}

func (r *idempotencyRepository) Purge(ctx context.Context, t time.Time) (int64, error) {
	res := conn(ctx, r.db).Where("expires_at <= ?", t).Delete(&entity.StoredResponse{})
	return res.RowsAffected, res.Error
}
