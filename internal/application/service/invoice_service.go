package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/billing"
	"github.com/sangkips/caisse-api/internal/domain/cart"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	infraRepo "github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/cache"
	"github.com/sangkips/caisse-api/pkg/money"
	"github.com/sangkips/caisse-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const invoiceCacheOperation = "invoice"

// InvoiceOptions controls the invoice geometry and date rendering.
type InvoiceOptions struct {
	CharWidth    int
	PaperWidthMM float64
	DateLayout   string
	Location     *time.Location // default business timezone
	CacheTTL     time.Duration
}

// InvoiceService renders invoices from order snapshots.
type InvoiceService struct {
	opts           InvoiceOptions
	orderRepo      repository.OrderRepository
	lineRepo       repository.OrderLineRepository
	restaurantRepo repository.RestaurantRepository
	cache          cache.Cache
	log            *logrus.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	opts InvoiceOptions,
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	restaurantRepo repository.RestaurantRepository,
	c cache.Cache,
	log *logrus.Logger,
) *InvoiceService {
	if opts.CharWidth <= 0 {
		opts.CharWidth = 48
	}
	if opts.DateLayout == "" {
		opts.DateLayout = "02/01/2006 15:04"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &InvoiceService{
		opts:           opts,
		orderRepo:      orderRepo,
		lineRepo:       lineRepo,
		restaurantRepo: restaurantRepo,
		cache:          c,
		log:            log,
	}
}

// BuildInvoice lays out inv. It only reads inv: no catalog or order lookups.
func (s *InvoiceService) BuildInvoice(inv *entity.Invoice) (*printer.Layout, billing.Totals, error) {
	if len(inv.Lines) == 0 {
		return nil, billing.Totals{}, renderError(apperror.NewFieldValidationError("lines", "order has no lines"))
	}
	if inv.Number <= 0 {
		return nil, billing.Totals{}, renderError(apperror.NewFieldValidationError("number", "order has no display number"))
	}

	lines, err := cart.Arrange(inv.Lines, func(l entity.InvoiceLine) (uuid.UUID, *uuid.UUID) {
		return l.ID, l.ParentID
	})
	if err != nil {
		return nil, billing.Totals{}, renderError(err)
	}

	priced := make([]billing.Line, len(lines))
	for i, l := range lines {
		priced[i] = billing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity, VATPercent: l.VATPercent}
	}
	totals, err := billing.Compute(priced)
	if err != nil {
		return nil, billing.Totals{}, renderError(err)
	}
	change, err := billing.ChangeDue(inv.CashTendered, totals.HT.Add(totals.TVA))
	if err != nil {
		return nil, billing.Totals{}, renderError(err)
	}

	l := printer.NewLayout(s.opts.CharWidth)

	// Header
	h := inv.Header
	if h.CompanyName != "" {
		l.Add(printer.Row{Left: h.CompanyName, Align: printer.AlignCenter, Bold: true})
	}
	l.Add(printer.Row{Left: h.RestaurantName, Align: printer.AlignCenter, Bold: h.CompanyName == ""})
	if h.Address != "" {
		l.Text(printer.AlignCenter, h.Address)
	}
	l.Blank().
		Text(printer.AlignCenter, fmt.Sprintf("Facture N° %d", inv.InvoiceNumber)).
		Add(printer.Row{
			Left:      fmt.Sprintf("Commande N° %d", inv.Number),
			Align:     printer.AlignCenter,
			Size:      printer.SizeLarge,
			Bold:      true,
			Underline: true,
		}).
		Text(printer.AlignRight, inv.IssuedAt.In(s.opts.Location).Format(s.opts.DateLayout)).
		Separator('-')

	// Body
	for _, line := range lines {
		indent := 0
		if line.ParentID != nil {
			indent = 1
		}
		l.Add(printer.Row{
			Left:   fmt.Sprintf("%s x%d", line.Name, line.Quantity),
			Right:  money.FormatBlankZero(line.Total()),
			Indent: indent,
		})
		if line.Comment != "" {
			l.Add(printer.Row{Left: line.Comment, Indent: indent + 1, Size: printer.SizeSmall})
		}
	}

	// Footer
	l.Separator('-').
		KeyValue("Total HT", money.Format(totals.HT))
	for _, r := range totals.ByRate {
		l.KeyValue("TVA "+money.FormatPercent(r.Rate), money.Format(r.Amount))
	}
	l.Add(printer.Row{Left: "Total TTC", Right: money.Format(totals.TTC), Size: printer.SizeLarge, Bold: true}).
		KeyValue("Espèces", money.Format(inv.CashTendered)).
		KeyValue("Monnaie rendue", money.Format(change)).
		Separator('-')

	if h.SiretNumber != "" {
		l.Text(printer.AlignCenter, "SIRET : "+h.SiretNumber)
	}
	if h.TVANumber != "" {
		l.Text(printer.AlignCenter, "N° TVA : "+h.TVANumber)
	}
	if h.Phone != "" {
		l.Text(printer.AlignCenter, "Tél : "+h.Phone)
	}
	l.Add(printer.Row{Left: "Réf. " + inv.OrderID.String(), Align: printer.AlignCenter, Size: printer.SizeSmall})

	return l, totals, nil
}

// RenderPDF renders inv as the PDF document stored on the order.
func (s *InvoiceService) RenderPDF(inv *entity.Invoice) ([]byte, billing.Totals, error) {
	layout, totals, err := s.BuildInvoice(inv)
	if err != nil {
		return nil, billing.Totals{}, err
	}
	doc, err := layout.PDF(printer.PDFOptions{
		PaperWidthMM: s.opts.PaperWidthMM,
		Title:        fmt.Sprintf("Facture %d", inv.InvoiceNumber),
		CreationDate: inv.IssuedAt,
	})
	if err != nil {
		return nil, billing.Totals{}, apperror.NewRenderError("Invoice could not be rendered", err)
	}
	return doc, totals, nil
}

// RenderESCPOS renders inv for the thermal printer.
func (s *InvoiceService) RenderESCPOS(inv *entity.Invoice) ([]byte, error) {
	layout, _, err := s.BuildInvoice(inv)
	if err != nil {
		return nil, err
	}
	return layout.ESCPOS(), nil
}

// Snapshot assembles the invoice input of a confirmed order from its
// persisted lines and their snapshotted prices.
func (s *InvoiceService) Snapshot(ctx context.Context, order *entity.Order) (*entity.Invoice, error) {
	if !order.IsConfirmed() {
		return nil, apperror.NewConflictError("Order has not been confirmed")
	}
	restaurant, err := s.restaurantRepo.GetByID(ctx, order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, apperror.NewNotFoundError("Restaurant")
	}
	lines, err := s.lineRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	issuedAt := order.UpdatedAt
	if order.ConfirmedAt != nil {
		issuedAt = *order.ConfirmedAt
	}
	invoiceNumber := 0
	if order.InvoiceNumber != nil {
		invoiceNumber = *order.InvoiceNumber
	}
	return newInvoice(order, restaurant, cart.New(lines).Ordered(), *order.Number, invoiceNumber, issuedAt, order.CashTendered.Decimal), nil
}

// GetInvoice returns the base64 PDF of a confirmed order, from cache when possible.
func (s *InvoiceService) GetInvoice(ctx context.Context, orderID uuid.UUID) (string, error) {
	if restaurantID, ok := infraRepo.GetRestaurantID(ctx); ok {
		cached, err := s.cache.Get(ctx, s.cacheKey(restaurantID, orderID))
		if err != nil {
			s.log.WithError(err).WithField("order_id", orderID).Warn("Invoice cache read failed")
		} else if cached != "" {
			return cached, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", apperror.NewNotFoundError("Order")
	}
	if order.PDFBase64 == nil {
		return "", apperror.NewConflictError("Order has not been confirmed")
	}

	s.CacheInvoice(ctx, order)
	return *order.PDFBase64, nil
}

// GetInvoicePDF is GetInvoice decoded.
func (s *InvoiceService) GetInvoicePDF(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	encoded, err := s.GetInvoice(ctx, orderID)
	if err != nil {
		return nil, err
	}
	doc, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("stored invoice is not valid base64: %w", err)
	}
	return doc, nil
}

// CacheInvoice stores the rendered invoice of a confirmed order. Failures are logged only.
func (s *InvoiceService) CacheInvoice(ctx context.Context, order *entity.Order) {
	if order.PDFBase64 == nil {
		return
	}
	key := s.cacheKey(order.RestaurantID, order.ID)
	if err := s.cache.Set(ctx, key, *order.PDFBase64, s.opts.CacheTTL); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("Invoice cache write failed")
	}
}

func (s *InvoiceService) cacheKey(restaurantID, orderID uuid.UUID) string {
	return s.cache.GenerateKey(invoiceCacheOperation, restaurantID.String()+":"+orderID.String())
}

func newInvoice(order *entity.Order, restaurant *entity.Restaurant, lines []entity.OrderLine, number, invoiceNumber int, issuedAt time.Time, cash decimal.Decimal) *entity.Invoice {
	inv := &entity.Invoice{
		OrderID:       order.ID,
		Header:        entity.NewInvoiceHeader(restaurant),
		Number:        number,
		InvoiceNumber: invoiceNumber,
		IssuedAt:      issuedAt,
		Lines:         make([]entity.InvoiceLine, len(lines)),
		CashTendered:  cash,
	}
	for i := range lines {
		inv.Lines[i] = entity.NewInvoiceLine(&lines[i])
	}
	return inv
}

func renderError(cause error) error {
	return apperror.NewRenderError("Invoice could not be rendered", cause)
}
