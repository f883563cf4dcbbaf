package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/caisse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := conn(ctx, r.db).
		Scopes(RestaurantScope(ctx)).
		Preload("Group.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// GetItems retrieves multiple items by their IDs in a single query
func (r *catalogRepository) GetItems(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	if len(ids) == 0 {
		return []entity.Item{}, nil
	}
	var items []entity.Item
	err := conn(ctx, r.db).
		Scopes(RestaurantScope(ctx)).
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

func (r *catalogRepository) ListItems(ctx context.Context, includeHidden bool) ([]entity.Item, error) {
	var items []entity.Item
	query := conn(ctx, r.db).Scopes(RestaurantScope(ctx)).Preload("Category")
	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}
	err := query.Order("position ASC, name ASC").Find(&items).Error
	return items, err
}
