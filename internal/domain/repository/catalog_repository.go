package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
)

// CatalogRepository gives read access to the menu of the current restaurant.
type CatalogRepository interface {
	// GetItem returns an item with its group and options preloaded.
	GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	GetItems(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error)
	ListItems(ctx context.Context, includeHidden bool) ([]entity.Item, error)
}

// RestaurantRepository defines the interface for restaurant data operations
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *entity.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)
	// LockByID serializes writers per restaurant for the rest of the transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Restaurant, error)
}
