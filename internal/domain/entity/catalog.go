package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups menu items; a GroupOption draws its selectable items from one.
type Category struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Position     int            `gorm:"default:0" json:"position"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Item is a sellable catalog entry. Price is tax-inclusive.
type Item struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	GroupID      *uuid.UUID      `gorm:"type:uuid;index" json:"group_id,omitempty"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	TVAPercent   decimal.Decimal `gorm:"column:tva_percent;type:decimal(5,2);not null;default:10" json:"tva_percent"`
	OutOfStock   bool            `gorm:"default:false" json:"out_of_stock"`
	IsHidden     bool            `gorm:"default:false" json:"is_hidden"`
	Position     int             `gorm:"default:0" json:"position"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}

// IsCombo reports whether selecting the item requires option choices.
func (i *Item) IsCombo() bool {
	return i.GroupID != nil
}

// Group is a combo definition: the option slots offered with an item.
type Group struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Options []GroupOption `gorm:"foreignKey:GroupID" json:"options,omitempty"`
}

// BeforeCreate generates a UUID before creating a new group
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Group model
func (Group) TableName() string {
	return "menu_groups"
}

// GroupOption is one slot of a combo, e.g. "choice of drink".
type GroupOption struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	GroupID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"group_id"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Multiple   bool            `gorm:"default:false" json:"multiple"`
	Required   bool            `gorm:"default:false" json:"required"`
	AddonPrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"addon_price"`
	Position   int             `gorm:"default:0" json:"position"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new group option
func (o *GroupOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the GroupOption model
func (GroupOption) TableName() string {
	return "group_options"
}
