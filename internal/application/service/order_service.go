package service

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/billing"
	"github.com/sangkips/caisse-api/internal/domain/cart"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	infraRepo "github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/money"
	"github.com/sangkips/caisse-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const businessDayLayout = "2006-01-02"

// OrderService handles the order lifecycle, including confirmation.
type OrderService struct {
	tx             repository.TxManager
	orderRepo      repository.OrderRepository
	lineRepo       repository.OrderLineRepository
	restaurantRepo repository.RestaurantRepository
	invoices       *InvoiceService
	printer        *PrinterService
	printOnConfirm bool
	defaultLoc     *time.Location
	log            *logrus.Logger
	now            func() time.Time
}

// OrderServiceConfig holds the order service settings.
type OrderServiceConfig struct {
	PrintOnConfirm bool
	DefaultTZ      *time.Location
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	cfg OrderServiceConfig,
	tx repository.TxManager,
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	restaurantRepo repository.RestaurantRepository,
	invoices *InvoiceService,
	printer *PrinterService,
	log *logrus.Logger,
) *OrderService {
	loc := cfg.DefaultTZ
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		tx:             tx,
		orderRepo:      orderRepo,
		lineRepo:       lineRepo,
		restaurantRepo: restaurantRepo,
		invoices:       invoices,
		printer:        printer,
		printOnConfirm: cfg.PrintOnConfirm,
		defaultLoc:     loc,
		log:            log,
		now:            now,
	}
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	Type              enum.OrderType
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomerPhone     string
	CustomerAddress   string
}

// CreateOrder opens a new PENDING order for the restaurant in ctx.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
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

	order := &entity.Order{
		RestaurantID:      restaurantID,
		Status:            enum.OrderStatusPending,
		Type:              input.Type,
		CustomerFirstName: input.CustomerFirstName,
		CustomerLastName:  input.CustomerLastName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		CustomerAddress:   input.CustomerAddress,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "restaurant_id": restaurantID}).Info("Order created")
	return order, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders returns the restaurant's order history
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, p), nil
}

// UpdateStatus moves an order along its state machine. READY can only be
// reached through Confirm.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	if status == enum.OrderStatusReady {
		return nil, apperror.NewConflictError("Orders become READY through confirmation")
	}

	var order *entity.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if !order.Status.CanTransitionTo(status) {
			return apperror.NewConflictError("Cannot move order from " + order.Status.String() + " to " + status.String())
		}
		if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "status": status.String()}).Info("Order status updated")
	return order, nil
}

// CancelOrder cancels an order from any non-terminal state.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return s.UpdateStatus(ctx, id, enum.OrderStatusCanceled)
}

// DeleteOrder abandons an unconfirmed order together with its lines.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if order.IsConfirmed() {
			return apperror.NewConflictError("Confirmed orders cannot be deleted")
		}
		if err := s.lineRepo.DeleteByOrderID(ctx, id); err != nil {
			return err
		}
		return s.orderRepo.Delete(ctx, id)
	})
}

// ConfirmResult is the outcome of a successful confirmation.
type ConfirmResult struct {
	Order     *entity.Order
	Totals    billing.Totals
	ChangeDue decimal.Decimal
}

// Confirm numbers the order for the day, renders its invoice and marks it
// READY, all in one transaction. The restaurant row is locked first so that
// concurrent confirmations for one restaurant assign numbers one at a time.
// Nothing is written when validation or rendering fails.
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID, cashTendered decimal.Decimal) (*ConfirmResult, error) {
	if cashTendered.IsNegative() {
		return nil, apperror.NewFieldValidationError("cash_tendered", "cash tendered cannot be negative")
	}
	if !money.IsWholeCents(cashTendered) {
		return nil, apperror.NewFieldValidationError("cash_tendered", "cash tendered cannot have fractions of a cent")
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &ConfirmResult{}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		restaurant, err := s.restaurantRepo.LockByID(ctx, current.RestaurantID)
		if err != nil {
			return err
		}
		if restaurant == nil {
			return apperror.NewNotFoundError("Restaurant")
		}

		order, err := s.orderRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if order.IsConfirmed() || !order.Status.IsConfirmable() {
			return apperror.NewConflictError("Order cannot be confirmed in status " + order.Status.String())
		}

		lines, err := s.lineRepo.ListByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperror.NewFieldValidationError("lines", "order has no lines")
		}

		c := cart.New(lines)
		totals, err := c.Totals()
		if err != nil {
			return err
		}
		change, err := billing.ChangeDue(cashTendered, totals.TTC)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		local := now.In(restaurant.Location(s.defaultLoc))
		day := local.Format(businessDayLayout)

		last, err := s.orderRepo.MaxDailyNumber(ctx, restaurant.ID, day)
		if err != nil {
			return err
		}
		number := last + 1

		yearStart := time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, local.Location()).UTC()
		confirmedThisYear, err := s.orderRepo.CountConfirmedSince(ctx, restaurant.ID, yearStart)
		if err != nil {
			return err
		}
		invoiceNumber := int(confirmedThisYear) + 1

		inv := newInvoice(order, restaurant, c.Ordered(), number, invoiceNumber, now, cashTendered)
		doc, _, err := s.invoices.RenderPDF(inv)
		if err != nil {
			return err
		}
		encoded := base64.StdEncoding.EncodeToString(doc)

		order.Status = enum.OrderStatusReady
		order.Number = &number
		order.BusinessDay = &day
		order.InvoiceNumber = &invoiceNumber
		order.CashTendered = decimal.NewNullDecimal(cashTendered)
		order.TotalTTC = decimal.NewNullDecimal(totals.TTC)
		order.PDFBase64 = &encoded
		order.ConfirmedAt = &now
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		result.Order = order
		result.Totals = totals
		result.ChangeDue = change
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":       result.Order.ID,
		"restaurant_id":  result.Order.RestaurantID,
		"number":         *result.Order.Number,
		"invoice_number": *result.Order.InvoiceNumber,
	}).Info("Order confirmed")

	s.invoices.CacheInvoice(ctx, result.Order)
	if s.printOnConfirm && s.printer != nil {
		if err := s.printer.printConfirmed(ctx, result.Order); err != nil {
			s.log.WithError(err).WithField("order_id", result.Order.ID).Warn("Invoice not printed")
		}
	}
	return result, nil
}
