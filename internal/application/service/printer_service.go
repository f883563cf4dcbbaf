package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PrinterService sends invoices to the thermal printer.
type PrinterService struct {
	printer   printer.Printer
	invoices  *InvoiceService
	orderRepo repository.OrderRepository
	log       *logrus.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoices *InvoiceService,
	orderRepo repository.OrderRepository,
	log *logrus.Logger,
) *PrinterService {
	return &PrinterService{
		printer:   p,
		invoices:  invoices,
		orderRepo: orderRepo,
		log:       log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Target     string `json:"target"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	target := s.printer.Describe()
	return &PrinterStatus{
		Configured: target != "none",
		Connected:  s.printer.IsConnected(),
		Target:     target,
	}
}

// TestPrint prints a sample invoice and returns its plain-text rendering.
func (s *PrinterService) TestPrint() (string, error) {
	rootID := uuid.New()
	inv := &entity.Invoice{
		OrderID: uuid.Nil,
		Header: entity.InvoiceHeader{
			RestaurantName: "TEST IMPRIMANTE",
			Address:        "Adresse de test",
		},
		Number:        1,
		InvoiceNumber: 1,
		IssuedAt:      time.Now(),
		Lines: []entity.InvoiceLine{
			{ID: rootID, Name: "Article test", Quantity: 1, UnitPrice: decimal.NewFromInt(10), VATPercent: decimal.NewFromInt(10)},
			{ID: uuid.New(), ParentID: &rootID, Name: "Option test", Quantity: 1, UnitPrice: decimal.Zero, VATPercent: decimal.NewFromInt(10)},
		},
		CashTendered: decimal.NewFromInt(10),
	}

	layout, _, err := s.invoices.BuildInvoice(inv)
	if err != nil {
		return "", err
	}
	if err := s.printer.Print(layout.ESCPOS()); err != nil {
		return layout.PlainText(), apperror.NewUnavailableError("Test print failed", err)
	}
	return layout.PlainText(), nil
}

// PrintOrder re-renders a confirmed order's invoice from its persisted line
// snapshot and prints it.
func (s *PrinterService) PrintOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	return s.printConfirmed(ctx, order)
}

func (s *PrinterService) printConfirmed(ctx context.Context, order *entity.Order) error {
	inv, err := s.invoices.Snapshot(ctx, order)
	if err != nil {
		return err
	}
	data, err := s.invoices.RenderESCPOS(inv)
	if err != nil {
		return err
	}
	if err := s.printer.Print(data); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"order_id": order.ID,
			"printer":  s.printer.Describe(),
		}).Error("Printer error")
		return apperror.NewUnavailableError("Printer unavailable", err)
	}
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "number": *order.Number}).Info("Invoice printed")
	return nil
}
