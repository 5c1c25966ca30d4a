package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`
	UpdatedByUserID uuid.UUID `gorm:"type:uuid"`

	Name    string `gorm:"not null;index"`
	Address string
	Notes   string

	Phones []Phone `gorm:"foreignKey:CustomerID"`
	Bills  []Bill  `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
