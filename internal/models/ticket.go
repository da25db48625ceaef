package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Ticket struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     string          `gorm:"type:uuid;not null;index" json:"event_id"`
	Type        string          `gorm:"not null" json:"type"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	SoldCount   int             `gorm:"not null;default:0" json:"sold_count"`
	SaleStartAt *time.Time      `json:"sale_start_at,omitempty"`
	SaleEndAt   *time.Time      `json:"sale_end_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Available returns the number of units not yet committed to bookings.
func (t *Ticket) Available() int {
	return t.Quantity - t.SoldCount
}

// SaleOpen reports whether the ticket can be sold at the given time.
// A nil bound means the window is open on that side.
func (t *Ticket) SaleOpen(now time.Time) bool {
	if t.SaleStartAt != nil && now.Before(*t.SaleStartAt) {
		return false
	}
	if t.SaleEndAt != nil && now.After(*t.SaleEndAt) {
		return false
	}
	return true
}
