package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	infraRepo "github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
)

// CatalogService exposes the read-only menu of the current restaurant.
type CatalogService struct {
	catalogRepo    repository.CatalogRepository
	restaurantRepo repository.RestaurantRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository, restaurantRepo repository.RestaurantRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo, restaurantRepo: restaurantRepo}
}

// GetRestaurant returns the restaurant the request acts for.
func (s *CatalogService) GetRestaurant(ctx context.Context) (*entity.Restaurant, error) {
	restaurantID, ok := infraRepo.GetRestaurantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Restaurant context required")
	}
	restaurant, err := s.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, apperror.NewNotFoundError("Restaurant")
	}
	return restaurant, nil
}

// ListItems returns the menu, hidden items only when asked for.
func (s *CatalogService) ListItems(ctx context.Context, includeHidden bool) ([]entity.Item, error) {
	return s.catalogRepo.ListItems(ctx, includeHidden)
}

// GetItem returns one item with its combo options
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.catalogRepo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}
