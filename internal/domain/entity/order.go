package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents one customer transaction.
//
// Number is the human-facing display number. It is unique per restaurant and
// business day only, and stays nil until the order is confirmed, together with
// BusinessDay, InvoiceNumber, CashTendered, TotalTTC, PDFBase64 and ConfirmedAt.
type Order struct {
	ID                uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID      uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_daily_number,priority:1" json:"restaurant_id"`
	Status            enum.OrderStatus    `gorm:"default:0;index" json:"status"`
	Type              enum.OrderType      `gorm:"default:0" json:"type"`
	CustomerFirstName string              `gorm:"size:255" json:"customer_first_name"`
	CustomerLastName  string              `gorm:"size:255" json:"customer_last_name"`
	CustomerEmail     string              `gorm:"size:255" json:"customer_email"`
	CustomerPhone     string              `gorm:"size:50" json:"customer_phone"`
	CustomerAddress   string              `gorm:"size:500" json:"customer_address"`
	BusinessDay       *string             `gorm:"size:10;uniqueIndex:idx_orders_daily_number,priority:2" json:"business_day,omitempty"`
	Number            *int                `gorm:"uniqueIndex:idx_orders_daily_number,priority:3" json:"number,omitempty"`
	InvoiceNumber     *int                `json:"invoice_number,omitempty"`
	CashTendered      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"cash_tendered"`
	TotalTTC          decimal.NullDecimal `gorm:"column:total_ttc;type:decimal(10,2)" json:"total_ttc"`
	PDFBase64         *string             `gorm:"column:pdf_base64;type:text" json:"pdf_base64,omitempty"`
	ConfirmedAt       *time.Time          `gorm:"index" json:"confirmed_at,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	DeletedAt         gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsConfirmed reports whether a display number has been assigned.
func (o *Order) IsConfirmed() bool {
	return o.Number != nil
}

// OrderLine is one line of a cart. A line with ParentLineID set is a combo
// option selection whose lifecycle is bound to its parent. Name, UnitPrice and
// VATPercent are copied from the catalog when the line is added and never
// follow later menu edits.
type OrderLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	ParentLineID *uuid.UUID      `gorm:"type:uuid;index" json:"parent_line_id,omitempty"`
	Name         string          `gorm:"size:255;not null;default:''" json:"name"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	VATPercent   decimal.Decimal `gorm:"column:vat_percent;type:decimal(5,2);not null;default:0" json:"vat_percent"`
	Comment      *string         `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order line
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

// IsRoot reports whether the line was ordered directly rather than as a combo option.
func (l *OrderLine) IsRoot() bool {
	return l.ParentLineID == nil
}
