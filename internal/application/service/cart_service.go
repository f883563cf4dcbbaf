package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/billing"
	"github.com/sangkips/caisse-api/internal/domain/cart"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartService composes the lines of an order.
type CartService struct {
	tx          repository.TxManager
	orderRepo   repository.OrderRepository
	lineRepo    repository.OrderLineRepository
	catalogRepo repository.CatalogRepository
	log         *logrus.Logger
	now         func() time.Time
}

// NewCartService creates a new cart service
func NewCartService(
	tx repository.TxManager,
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	catalogRepo repository.CatalogRepository,
	log *logrus.Logger,
) *CartService {
	return &CartService{
		tx:          tx,
		orderRepo:   orderRepo,
		lineRepo:    lineRepo,
		catalogRepo: catalogRepo,
		log:         log,
		now:         time.Now,
	}
}

// AddLineInput represents a raw line addition. UnitPrice is taken as given.
type AddLineInput struct {
	OrderID   uuid.UUID
	ItemID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	ParentID  *uuid.UUID
	Comment   *string
}

// AddItemInput represents ordering a catalog item, with its combo selections.
type AddItemInput struct {
	OrderID    uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
	Comment    *string
	Selections []cart.Selection
}

// CartLineView is one root line of the cart with its children.
type CartLineView struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
	VATPercent decimal.Decimal `json:"tva_percent"`
	Comment    *string         `json:"comment,omitempty"`
	Children   []CartLineView  `json:"children,omitempty"`
}

// CartView is the display snapshot of an order's cart.
type CartView struct {
	OrderID uuid.UUID        `json:"order_id"`
	Status  enum.OrderStatus `json:"status"`
	Lines   []CartLineView   `json:"lines"`
	Totals  billing.Totals   `json:"totals"`
}

// TotalsView is the calculator output for an order, with change when cash is given.
type TotalsView struct {
	billing.Totals
	CashTendered *decimal.Decimal `json:"cash_tendered,omitempty"`
	ChangeDue    *decimal.Decimal `json:"change_due,omitempty"`
}

// AddLine appends a line snapshot to an order. A child line takes the
// quantity of its parent, whatever the input says.
func (s *CartService) AddLine(ctx context.Context, input *AddLineInput) (*entity.OrderLine, error) {
	var line *entity.OrderLine
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockEditable(ctx, input.OrderID); err != nil {
			return err
		}
		var err error
		line, err = s.addLine(ctx, input, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": input.OrderID, "line_id": line.ID}).Debug("Line added")
	return line, nil
}

// AddItem orders a catalog item at its current price, plus one child line
// per selected option value at the option's addon price.
func (s *CartService) AddItem(ctx context.Context, input *AddItemInput) ([]entity.OrderLine, error) {
	if input.Quantity < 1 {
		return nil, apperror.NewFieldValidationError("quantity", "quantity must be at least 1")
	}

	var created []entity.OrderLine
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockEditable(ctx, input.OrderID); err != nil {
			return err
		}

		item, err := s.catalogRepo.GetItem(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Item")
		}

		candidates, err := s.selectedItems(ctx, input.Selections)
		if err != nil {
			return err
		}
		children, err := cart.ResolveSelections(item, input.Selections, candidates)
		if err != nil {
			return err
		}

		base := s.now()
		root, err := s.addLine(ctx, &AddLineInput{
			OrderID:   input.OrderID,
			ItemID:    item.ID,
			Quantity:  input.Quantity,
			UnitPrice: item.Price,
			Comment:   input.Comment,
		}, base)
		if err != nil {
			return err
		}
		created = append(created, *root)

		for i, child := range children {
			// Children are stamped after the root so display order follows selection order.
			line, err := s.addLine(ctx, &AddLineInput{
				OrderID:   input.OrderID,
				ItemID:    child.ItemID,
				Quantity:  input.Quantity,
				UnitPrice: child.UnitPrice,
				ParentID:  &root.ID,
			}, base.Add(time.Duration(i+1)*time.Microsecond))
			if err != nil {
				return err
			}
			created = append(created, *line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": input.OrderID,
		"line_id":  created[0].ID,
		"children": len(created) - 1,
	}).Info("Item added to cart")
	return created, nil
}

// SetQuantity sets a root line and all its children to quantity. Zero removes
// the children and then the line.
func (s *CartService) SetQuantity(ctx context.Context, orderID, lineID uuid.UUID, quantity int) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.lockEditable(ctx, orderID); err != nil {
			return err
		}
		lines, err := s.lineRepo.ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		m, err := cart.New(lines).PlanQuantity(lineID, quantity)
		if err != nil {
			return err
		}
		if m.IsRemoval() {
			// Delete lists the children first and the root last.
			children, root := m.Delete[:len(m.Delete)-1], m.Delete[len(m.Delete)-1:]
			if len(children) > 0 {
				if err := s.lineRepo.DeleteByIDs(ctx, children); err != nil {
					return err
				}
			}
			return s.lineRepo.DeleteByIDs(ctx, root)
		}
		return s.lineRepo.SetQuantity(ctx, m.Update, m.Quantity)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"order_id": orderID, "line_id": lineID, "quantity": quantity}).Debug("Line quantity set")
	return nil
}

// RemoveLine removes a root line together with its children.
func (s *CartService) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) error {
	return s.SetQuantity(ctx, orderID, lineID, 0)
}

// GetCart returns the order's lines in display order with the order totals.
func (s *CartService) GetCart(ctx context.Context, orderID uuid.UUID) (*CartView, error) {
	order, c, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	totals, err := c.Totals()
	if err != nil {
		return nil, err
	}

	view := &CartView{
		OrderID: order.ID,
		Status:  order.Status,
		Lines:   make([]CartLineView, 0, len(c.Roots())),
		Totals:  totals,
	}
	for _, root := range c.Roots() {
		rv := newCartLineView(root)
		for _, child := range c.Children(root.ID) {
			rv.Children = append(rv.Children, newCartLineView(child))
		}
		view.Lines = append(view.Lines, rv)
	}
	return view, nil
}

// Totals computes the order totals and, when cash is given, the change due.
func (s *CartService) Totals(ctx context.Context, orderID uuid.UUID, cash *decimal.Decimal) (*TotalsView, error) {
	_, c, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	totals, err := c.Totals()
	if err != nil {
		return nil, err
	}

	view := &TotalsView{Totals: totals}
	if cash != nil {
		if !money.IsWholeCents(*cash) {
			return nil, apperror.NewFieldValidationError("cash", "cash cannot have fractions of a cent")
		}
		change, err := billing.ChangeDue(*cash, totals.TTC)
		if err != nil {
			return nil, err
		}
		view.CashTendered = cash
		view.ChangeDue = &change
	}
	return view, nil
}

func (s *CartService) load(ctx context.Context, orderID uuid.UUID) (*entity.Order, *cart.Cart, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, apperror.NewNotFoundError("Order")
	}
	lines, err := s.lineRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, cart.New(lines), nil
}

// lockEditable locks the order for the rest of the transaction and checks its
// cart can still change.
func (s *CartService) lockEditable(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.LockByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.IsConfirmed() || !order.Status.IsConfirmable() {
		return nil, apperror.NewConflictError("Order can no longer be modified in status " + order.Status.String())
	}
	return order, nil
}

// addLine validates and stores one line. The order must already be locked.
func (s *CartService) addLine(ctx context.Context, input *AddLineInput, at time.Time) (*entity.OrderLine, error) {
	if input.Quantity < 1 {
		return nil, apperror.NewFieldValidationError("quantity", "quantity must be at least 1")
	}
	if input.UnitPrice.IsNegative() {
		return nil, apperror.NewFieldValidationError("unit_price", "unit price cannot be negative")
	}
	if !money.IsWholeCents(input.UnitPrice) {
		return nil, apperror.NewFieldValidationError("unit_price", "unit price cannot have fractions of a cent")
	}

	item, err := s.catalogRepo.GetItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	quantity := input.Quantity
	if input.ParentID != nil {
		parent, err := s.lineRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.OrderID != input.OrderID {
			return nil, apperror.NewNotFoundError("Parent line")
		}
		if !parent.IsRoot() {
			return nil, apperror.NewFieldValidationError("parent_id", "option lines cannot have options")
		}
		quantity = parent.Quantity
	}

	line := &entity.OrderLine{
		OrderID:      input.OrderID,
		ItemID:       item.ID,
		ParentLineID: input.ParentID,
		Name:         item.Name,
		Quantity:     quantity,
		UnitPrice:    input.UnitPrice,
		VATPercent:   item.TVAPercent,
		Comment:      input.Comment,
		CreatedAt:    at,
	}
	if err := s.lineRepo.Create(ctx, line); err != nil {
		return nil, err
	}
	line.Item = item
	return line, nil
}

func (s *CartService) selectedItems(ctx context.Context, selections []cart.Selection) (map[uuid.UUID]*entity.Item, error) {
	var ids []uuid.UUID
	for _, sel := range selections {
		ids = append(ids, sel.ItemIDs...)
	}
	out := make(map[uuid.UUID]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	items, err := s.catalogRepo.GetItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func newCartLineView(l entity.OrderLine) CartLineView {
	return CartLineView{
		ID:         l.ID,
		ItemID:     l.ItemID,
		Name:       l.Name,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		VATPercent: l.VATPercent,
		Total:      billing.LineTotal(l.UnitPrice, l.Quantity),
		Comment:    l.Comment,
	}
}
