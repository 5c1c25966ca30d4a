package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Phone numbers are unique across the whole system: a number can never belong
// to two customers. Phones are hard-deleted, so no soft-delete column here.
type Phone struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Phone      string    `gorm:"uniqueIndex;not null"`
	IsPrimary  bool      `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Phone) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
