package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceHeader holds the restaurant fields printed on an invoice.
type InvoiceHeader struct {
	CompanyName    string `json:"company_name"`
	RestaurantName string `json:"restaurant_name"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	SiretNumber    string `json:"siret_number,omitempty"`
	TVANumber      string `json:"tva_number,omitempty"`
}

// InvoiceLine is one priced line as it was ordered. UnitPrice is the
// tax-inclusive price snapshotted when the line was added.
type InvoiceLine struct {
	ID         uuid.UUID       `json:"id"`
	ParentID   *uuid.UUID      `json:"parent_id,omitempty"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	VATPercent decimal.Decimal `json:"vat_percent"`
	Comment    string          `json:"comment,omitempty"`
}

// Total is the tax-inclusive amount of the line.
func (l InvoiceLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Invoice is a value object: everything needed to render an order's invoice,
// resolved up front so rendering never reads the catalog.
// It is NOT a database entity.
type Invoice struct {
	OrderID       uuid.UUID       `json:"order_id"`
	Header        InvoiceHeader   `json:"header"`
	Number        int             `json:"number"`
	InvoiceNumber int             `json:"invoice_number"`
	IssuedAt      time.Time       `json:"issued_at"`
	Lines         []InvoiceLine   `json:"lines"`
	CashTendered  decimal.Decimal `json:"cash_tendered"`
}

// NewInvoiceHeader copies the printable fields of a restaurant.
func NewInvoiceHeader(r *Restaurant) InvoiceHeader {
	return InvoiceHeader{
		CompanyName:    r.CompanyName,
		RestaurantName: r.Name,
		Address:        r.Address,
		Phone:          r.Phone,
		SiretNumber:    r.SiretNumber,
		TVANumber:      r.TVANumber,
	}
}

// NewInvoiceLine copies an order line as it was added, without its catalog item.
func NewInvoiceLine(l *OrderLine) InvoiceLine {
	line := InvoiceLine{
		ID:         l.ID,
		ParentID:   l.ParentLineID,
		Name:       l.Name,
		Quantity:   l.Quantity,
		UnitPrice:  l.UnitPrice,
		VATPercent: l.VATPercent,
	}
	if l.Comment != nil {
		line.Comment = *l.Comment
	}
	return line
}
