package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	domainRepo "github.com/sangkips/caisse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderLineRepository struct {
	db *gorm.DB
}

// NewOrderLineRepository creates a new order line repository
func NewOrderLineRepository(db *gorm.DB) domainRepo.OrderLineRepository {
	return &orderLineRepository{db: db}
}

func (r *orderLineRepository) Create(ctx context.Context, line *entity.OrderLine) error {
	return conn(ctx, r.db).Omit("Item").Create(line).Error
}

func (r *orderLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderLine, error) {
	var line entity.OrderLine
	err := conn(ctx, r.db).First(&line, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

// ListByOrderID returns the lines with their own name and rate, so menu
// edits made after ordering never show up in totals or invoices.
func (r *orderLineRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderLine, error) {
	var lines []entity.OrderLine
	err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *orderLineRepository) SetQuantity(ctx context.Context, ids []uuid.UUID, quantity int) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db).Model(&entity.OrderLine{}).
		Where("id IN ?", ids).
		Update("quantity", quantity).Error
}

func (r *orderLineRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db).Delete(&entity.OrderLine{}, "id IN ?", ids).Error
}

func (r *orderLineRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.OrderLine{}, "order_id = ?", orderID).Error
}
