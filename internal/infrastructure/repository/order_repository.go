package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	domainRepo "github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSortColumns = map[string]string{
	"created_at":   "created_at",
	"confirmed_at": "confirmed_at",
	"number":       "number",
	"total_ttc":    "total_ttc",
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Scopes(RestaurantScope(ctx)).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(RestaurantScope(ctx)).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

// Update saves the order. Losing the race for a daily number surfaces as a
// concurrency error rather than a raw constraint violation.
func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Save(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConcurrencyError("Order number already taken, retry the confirmation")
	}
	return err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return conn(ctx, r.db).Model(&entity.Order{}).
		Scopes(RestaurantScope(ctx)).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(RestaurantScope(ctx)).Delete(&entity.Order{}, "id = ?", id).Error
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := conn(ctx, r.db).Model(&entity.Order{}).Scopes(RestaurantScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if params.BusinessDay != "" {
		query = query.Where("business_day = ?", params.BusinessDay)
	}

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("(LOWER(customer_first_name) LIKE ? OR LOWER(customer_last_name) LIKE ? OR LOWER(customer_phone) LIKE ?)", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if column, ok := orderSortColumns[params.SortBy]; ok {
		sortBy = column
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

// MaxDailyNumber includes soft-deleted rows: their numbers stay reserved by
// the unique index.
func (r *orderRepository) MaxDailyNumber(ctx context.Context, restaurantID uuid.UUID, businessDay string) (int, error) {
	var max sql.NullInt64
	err := conn(ctx, r.db).Unscoped().Model(&entity.Order{}).
		Where("restaurant_id = ? AND business_day = ?", restaurantID, businessDay).
		Select("MAX(number)").
		Row().Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

func (r *orderRepository) CountConfirmedSince(ctx context.Context, restaurantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Unscoped().Model(&entity.Order{}).
		Where("restaurant_id = ? AND confirmed_at >= ?", restaurantID, since).
		Count(&count).Error
	return count, err
}
