package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest orders a catalog item at its menu price
type AddItemRequest struct {
	ItemID     uuid.UUID        `json:"item_id" binding:"required"`
	Quantity   int              `json:"quantity" binding:"required,min=1"`
	Comment    *string          `json:"comment" binding:"omitempty,max=500"`
	Selections []cart.Selection `json:"selections" binding:"omitempty,dive"`
}

// AddLineRequest adds a raw line with an explicit price
type AddLineRequest struct {
	ItemID    uuid.UUID        `json:"item_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
	ParentID  *uuid.UUID       `json:"parent_id"`
	Comment   *string          `json:"comment" binding:"omitempty,max=500"`
}

// SetQuantityRequest sets the quantity of a root line; zero removes it
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}
