package cart

import (
	"github.com/google/uuid"

	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/pkg/apperror"
)

// Mutation is the storage-level effect of setting a root line's quantity.
// When Quantity is zero, Delete lists the children first and the root last;
// otherwise Update lists the root followed by its children.
type Mutation struct {
	LineID   uuid.UUID
	Quantity int
	Update   []uuid.UUID
	Delete   []uuid.UUID
}

// IsRemoval reports whether the mutation deletes the line.
func (m Mutation) IsRemoval() bool {
	return m.Quantity == 0
}

// PlanQuantity computes the cascade for setting lineID to quantity. Child lines
// cannot be targeted: they always mirror their parent.
func (c *Cart) PlanQuantity(lineID uuid.UUID, quantity int) (Mutation, error) {
	if quantity < 0 {
		return Mutation{}, apperror.NewFieldValidationError("quantity", "quantity cannot be negative")
	}
	line, ok := c.Line(lineID)
	if !ok {
		return Mutation{}, apperror.NewNotFoundError("Order line")
	}
	if !line.IsRoot() {
		return Mutation{}, apperror.NewFieldValidationError("line_id",
			"option lines follow the quantity of their parent line")
	}

	m := Mutation{LineID: lineID, Quantity: quantity}
	childIDs := append([]uuid.UUID(nil), c.children[lineID]...)
	if quantity == 0 {
		m.Delete = append(childIDs, lineID)
	} else {
		m.Update = append([]uuid.UUID{lineID}, childIDs...)
	}
	return m, nil
}

// Apply returns a new cart with the mutation applied.
func (c *Cart) Apply(m Mutation) *Cart {
	deleted := make(map[uuid.UUID]struct{}, len(m.Delete))
	for _, id := range m.Delete {
		deleted[id] = struct{}{}
	}
	updated := make(map[uuid.UUID]struct{}, len(m.Update))
	for _, id := range m.Update {
		updated[id] = struct{}{}
	}

	next := make([]entity.OrderLine, 0, len(c.lines))
	for _, l := range c.lines {
		if _, ok := deleted[l.ID]; ok {
			continue
		}
		if _, ok := updated[l.ID]; ok {
			l.Quantity = m.Quantity
		}
		next = append(next, l)
	}
	return New(next)
}
