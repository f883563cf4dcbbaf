package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant owns the menu and the orders. Its legal fields are printed on every invoice.
type Restaurant struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	CompanyName string         `gorm:"size:255" json:"company_name"`
	Address     string         `gorm:"size:500" json:"address"`
	Phone       string         `gorm:"size:50" json:"phone"`
	SiretNumber string         `gorm:"size:50" json:"siret_number"`
	TVANumber   string         `gorm:"column:tva_number;size:50" json:"tva_number"`
	Timezone    string         `gorm:"size:64" json:"timezone,omitempty"` // IANA name, empty means the configured default
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new restaurant
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}

// Location resolves the restaurant's business timezone, falling back to def.
func (r *Restaurant) Location(def *time.Location) *time.Location {
	if r.Timezone != "" {
		if loc, err := time.LoadLocation(r.Timezone); err == nil {
			return loc
		}
	}
	if def == nil {
		return time.UTC
	}
	return def
}
