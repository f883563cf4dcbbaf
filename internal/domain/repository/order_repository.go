package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/sangkips/caisse-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// LockByID reads the order and holds a write lock on it until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	// MaxDailyNumber returns the highest display number assigned for the
	// restaurant on businessDay, or 0 when none was assigned yet.
	MaxDailyNumber(ctx context.Context, restaurantID uuid.UUID, businessDay string) (int, error)
	// CountConfirmedSince counts orders of the restaurant confirmed at or after since.
	CountConfirmedSince(ctx context.Context, restaurantID uuid.UUID, since time.Time) (int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination  *pagination.PaginationParams
	Status      *enum.OrderStatus
	Type        *enum.OrderType
	BusinessDay string
	Search      string
	SortBy      string
	SortOrder   string
}

// OrderLineRepository defines the interface for order line data operations
type OrderLineRepository interface {
	Create(ctx context.Context, line *entity.OrderLine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderLine, error)
	// ListByOrderID returns the live lines of an order with their items preloaded.
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderLine, error)
	SetQuantity(ctx context.Context, ids []uuid.UUID, quantity int) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
}
