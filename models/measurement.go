package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BillMeasurement holds the garment measurements recorded for a bill, either
// keyed in by staff or auto-extracted from the bill photo.
type BillMeasurement struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	BillID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	GarmentTypeID *uuid.UUID `gorm:"type:uuid"`

	GarmentName   string            `gorm:"not null"`
	Measurements  datatypes.JSONMap `gorm:"type:jsonb"`
	Confidence    *float64
	Remarks       string
	UnknownValues datatypes.JSON

	IsAutoExtracted bool `gorm:"default:false"`
	IsVerified      bool `gorm:"default:false"`

	gorm.Model
}

func (m *BillMeasurement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
