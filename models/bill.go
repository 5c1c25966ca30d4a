package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusCutting   = "cutting"
	StatusStitching = "stitching"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Bill is one order line in a book. The folio number is unique within its
// book among live rows (soft-deleted bills free their folio), enforced by a
// partial unique index. BalanceDue is computed by the database from
// total_amount and advance_paid; the application never writes it.
type Bill struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	BookID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_book_folio,priority:1"`
	CustomerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	FolioNumber     int       `gorm:"not null;uniqueIndex:idx_book_folio,priority:2,where:deleted_at IS NULL"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`
	UpdatedByUserID uuid.UUID `gorm:"type:uuid"`

	ImageURL     string
	ThumbnailURL string

	BillDate           time.Time  `gorm:"not null"`
	DeliveryDate       *time.Time `gorm:"index"`
	ActualDeliveryDate *time.Time

	TotalAmount float64 `gorm:"type:numeric(10,2);not null;default:0"`
	AdvancePaid float64 `gorm:"type:numeric(10,2);not null;default:0"`
	BalanceDue  float64 `gorm:"->;type:numeric(10,2) GENERATED ALWAYS AS (total_amount - advance_paid) STORED"`

	Status  string `gorm:"type:varchar(20);not null;default:'pending';index"`
	Remarks string

	ExtractionStatus string `gorm:"type:varchar(20)"`
	RawExtraction    datatypes.JSON

	Customer     Customer          `gorm:"foreignKey:CustomerID"`
	Book         Book              `gorm:"foreignKey:BookID"`
	Measurements []BillMeasurement `gorm:"foreignKey:BillID"`

	gorm.Model
}

func (b *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// ValidStatus reports whether s is one of the known bill statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCutting, StatusStitching, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
