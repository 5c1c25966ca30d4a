package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a physical ledger grouping bills under a serial-number range.
// At most one book is current at any time; books are never soft-deleted and
// can only be removed while they own zero bills.
type Book struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	StartSerial int       `gorm:"not null"`
	EndSerial   *int
	IsCurrent   bool `gorm:"default:false;index"`

	Bills []Bill `gorm:"foreignKey:BookID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
