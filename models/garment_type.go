package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GarmentType is a catalog entry naming a garment and the measurement keys
// the intake form should offer for it.
type GarmentType struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key"`
	Name            string         `gorm:"uniqueIndex;not null"`
	MeasurementKeys datatypes.JSON `gorm:"type:jsonb"`
	IsActive        bool           `gorm:"not null"`

	CreatedAt time.Time
}

func (g *GarmentType) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}
