// Package cart models the lines of an in-progress order.
//
// Lines are kept in a flat arena and linked to their parent through an
// explicit parent-id index, so any line can be looked up on its own while
// display code still walks roots and their children in order.
package cart

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sangkips/caisse-api/internal/domain/billing"
	"github.com/sangkips/caisse-api/internal/domain/entity"
)

// Cart is a read model over the live lines of one order.
type Cart struct {
	lines    []entity.OrderLine
	index    map[uuid.UUID]int
	children map[uuid.UUID][]uuid.UUID
}

// New builds a cart from lines in any order.
func New(lines []entity.OrderLine) *Cart {
	c := &Cart{
		lines:    make([]entity.OrderLine, len(lines)),
		index:    make(map[uuid.UUID]int, len(lines)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	copy(c.lines, lines)
	sortByCreation(c.lines)

	for i, l := range c.lines {
		c.index[l.ID] = i
		if l.ParentLineID != nil {
			c.children[*l.ParentLineID] = append(c.children[*l.ParentLineID], l.ID)
		}
	}
	return c
}

// Len returns the number of lines, children included.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Line looks up a line by id.
func (c *Cart) Line(id uuid.UUID) (*entity.OrderLine, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.lines[i], true
}

// Children returns the child lines of id by ascending creation time.
func (c *Cart) Children(id uuid.UUID) []entity.OrderLine {
	ids := c.children[id]
	out := make([]entity.OrderLine, 0, len(ids))
	for _, childID := range ids {
		out = append(out, c.lines[c.index[childID]])
	}
	return out
}

// Roots returns the lines ordered directly by the customer.
func (c *Cart) Roots() []entity.OrderLine {
	out := make([]entity.OrderLine, 0, len(c.lines))
	for _, l := range c.lines {
		if l.IsRoot() {
			out = append(out, l)
		}
	}
	return out
}

// Ordered returns every line in display order: roots by creation time, each
// followed by its own children. Lines whose parent is missing are appended last.
func (c *Cart) Ordered() []entity.OrderLine {
	ordered, orphans := arrange(c.lines, orderLineKey)
	return append(ordered, orphans...)
}

// BillingLines converts the cart into calculator input. Each line is taxed at
// the rate it was added with.
func (c *Cart) BillingLines() []billing.Line {
	out := make([]billing.Line, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, billing.Line{
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			VATPercent: l.VATPercent,
		})
	}
	return out
}

// Totals runs the calculator over the cart.
func (c *Cart) Totals() (billing.Totals, error) {
	return billing.Compute(c.BillingLines())
}

func orderLineKey(l entity.OrderLine) (uuid.UUID, *uuid.UUID) {
	return l.ID, l.ParentLineID
}

func sortByCreation(lines []entity.OrderLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].CreatedAt.Before(lines[j].CreatedAt)
	})
}
