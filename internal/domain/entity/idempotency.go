package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoredResponse is the response of a mutating request, kept so that a retry
// carrying the same Idempotency-Key replays it instead of acting twice.
type StoredResponse struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stored_responses_key,priority:1" json:"restaurant_id"`
	Key          string    `gorm:"column:idempotency_key;size:255;not null;uniqueIndex:idx_stored_responses_key,priority:2" json:"key"`
	Route        string    `gorm:"size:255;not null" json:"route"` // method and concrete path, e.g. "POST /api/v1/orders/<id>/confirm"
	StatusCode   int       `gorm:"not null" json:"status_code"`
	Body         []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName returns the table name for StoredResponse
func (StoredResponse) TableName() string {
	return "stored_responses"
}

// BeforeCreate generates a UUID before creating a stored response
func (r *StoredResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ExpiredAt reports whether the response can no longer be replayed at t.
func (r *StoredResponse) ExpiredAt(t time.Time) bool {
	return !t.Before(r.ExpiresAt)
}
