package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tailortrack-backend/models"
	"tailortrack-backend/utils"
)

// DeliveryBucket classifies a live bill by its delivery date relative to a
// reference day. Recomputed on every query, never stored.
type DeliveryBucket string

const (
	BucketOverdue  DeliveryBucket = "overdue"
	BucketDueToday DeliveryBucket = "due_today"
	BucketUpcoming DeliveryBucket = "upcoming"
	BucketNone     DeliveryBucket = "none"
)

// ClassifyDelivery places a bill in exactly one delivery bucket. Delivered
// and cancelled bills, and bills without a delivery date, belong to none.
func ClassifyDelivery(bill *models.Bill, now time.Time) DeliveryBucket {
	if bill.Status == models.StatusDelivered || bill.Status == models.StatusCancelled {
		return BucketNone
	}
	if bill.DeliveryDate == nil {
		return BucketNone
	}
	today := utils.BeginningOfDay(now)
	due := utils.BeginningOfDay(*bill.DeliveryDate)
	switch {
	case due.Before(today):
		return BucketOverdue
	case due.Equal(today):
		return BucketDueToday
	default:
		return BucketUpcoming
	}
}

// CreateBill inserts a bill (and any nested measurements). A folio collision
// in the book surfaces as ErrDuplicateFolio so the caller can refetch the
// next folio and retry.
func CreateBill(db *gorm.DB, bill *models.Bill) error {
	if err := db.Create(bill).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateFolio
		}
		return err
	}
	return nil
}

// GetBill loads a bill with its customer (and phones), book and live
// measurements. Absent relations come back as empty collections, never nil.
func GetBill(db *gorm.DB, billID uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := db.
		Preload("Customer").
		Preload("Customer.Phones", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, created_at ASC")
		}).
		Preload("Book").
		Preload("Measurements").
		First(&bill, "id = ?", billID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if bill.Measurements == nil {
		bill.Measurements = []models.BillMeasurement{}
	}
	if bill.Customer.Phones == nil {
		bill.Customer.Phones = []models.Phone{}
	}
	return &bill, nil
}

// BillFilter narrows ListBills. Zero values mean "no filter".
type BillFilter struct {
	BookID   *uuid.UUID
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// ListBills returns live bills, newest first, with customer and book loaded.
func ListBills(db *gorm.DB, filter BillFilter) ([]models.Bill, error) {
	q := db.
		Preload("Customer").
		Preload("Customer.Phones").
		Preload("Book")
	if filter.BookID != nil {
		q = q.Where("book_id = ?", *filter.BookID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		q = q.Where("bill_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("bill_date <= ?", *filter.ToDate)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	bills := []models.Bill{}
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&bills).Error
	return bills, err
}

// BillsByFolio finds live bills carrying the folio number, optionally
// restricted to one book.
func BillsByFolio(db *gorm.DB, folio int, bookID *uuid.UUID) ([]models.Bill, error) {
	q := db.
		Preload("Customer").
		Preload("Book").
		Where("folio_number = ?", folio)
	if bookID != nil {
		q = q.Where("book_id = ?", *bookID)
	}
	bills := []models.Bill{}
	err := q.Order("created_at DESC").Find(&bills).Error
	return bills, err
}

// BillsByCustomer returns a customer's live bills, most recent first.
func BillsByCustomer(db *gorm.DB, customerID uuid.UUID) ([]models.Bill, error) {
	bills := []models.Bill{}
	err := db.
		Preload("Book").
		Preload("Measurements").
		Where("customer_id = ?", customerID).
		Order("bill_date DESC, created_at DESC").
		Find(&bills).Error
	return bills, err
}

// DueDeliveries returns undelivered, uncancelled bills whose delivery date
// falls on or before the given day, earliest first.
func DueDeliveries(db *gorm.DB, asOf time.Time) ([]models.Bill, error) {
	cutoff := utils.BeginningOfDay(asOf).AddDate(0, 0, 1)
	bills := []models.Bill{}
	err := db.
		Preload("Customer").
		Preload("Customer.Phones").
		Preload("Book").
		Where("delivery_date < ?", cutoff).
		Where("status NOT IN ?", []string{models.StatusDelivered, models.StatusCancelled}).
		Order("delivery_date ASC").
		Find(&bills).Error
	return bills, err
}

// UpcomingDeliveries returns undelivered, uncancelled bills due strictly
// after today and within the next `days` days.
func UpcomingDeliveries(db *gorm.DB, asOf time.Time, days int) ([]models.Bill, error) {
	from := utils.BeginningOfDay(asOf).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, days)
	bills := []models.Bill{}
	err := db.
		Preload("Customer").
		Preload("Customer.Phones").
		Preload("Book").
		Where("delivery_date >= ? AND delivery_date < ?", from, to).
		Where("status NOT IN ?", []string{models.StatusDelivered, models.StatusCancelled}).
		Order("delivery_date ASC").
		Find(&bills).Error
	return bills, err
}

// PendingPayments returns live bills with money outstanding, largest balance
// first. The filter runs on the store-derived balance_due column so it can
// never drift from total/advance.
func PendingPayments(db *gorm.DB) ([]models.Bill, error) {
	bills := []models.Bill{}
	err := db.
		Preload("Customer").
		Preload("Customer.Phones").
		Preload("Book").
		Where("balance_due > 0").
		Where("status <> ?", models.StatusCancelled).
		Order("balance_due DESC").
		Find(&bills).Error
	return bills, err
}

// RecordPayment adds amount to a bill's advance in a single atomic update,
// so two concurrent payment entries can never lose each other. Returns the
// bill with the recomputed balance.
func RecordPayment(db *gorm.DB, billID uuid.UUID, amount float64, userID uuid.UUID) (*models.Bill, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	res := db.Model(&models.Bill{}).
		Where("id = ?", billID).
		Updates(map[string]interface{}{
			"advance_paid":       gorm.Expr("advance_paid + ?", amount),
			"updated_by_user_id": userID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetBill(db, billID)
}

// SoftDeleteBill hides a bill from every read path while keeping the row and
// its references intact. Bills are financial records and are never purged.
func SoftDeleteBill(db *gorm.DB, billID uuid.UUID, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Bill{}).
			Where("id = ?", billID).
			Update("updated_by_user_id", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&models.Bill{}, "id = ?", billID).Error
	})
}

// AddMeasurement attaches a measurement to a live bill.
func AddMeasurement(db *gorm.DB, m *models.BillMeasurement) error {
	var bill models.Bill
	if err := db.Select("id").First(&bill, "id = ?", m.BillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return db.Create(m).Error
}

// VerifyMeasurement marks an auto-extracted measurement as checked by staff.
func VerifyMeasurement(db *gorm.DB, billID, measurementID uuid.UUID) (*models.BillMeasurement, error) {
	var m models.BillMeasurement
	if err := db.First(&m, "id = ? AND bill_id = ?", measurementID, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := db.Model(&m).Update("is_verified", true).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// BillStats aggregates live bills, optionally for one book.
type BillStats struct {
	TotalBills     int64   `json:"totalBills"`
	TotalValue     float64 `json:"totalValue"`
	TotalCollected float64 `json:"totalCollected"`
	TotalPending   float64 `json:"totalPending"`
	PendingCount   int64   `json:"pendingCount"`
	CuttingCount   int64   `json:"cuttingCount"`
	StitchingCount int64   `json:"stitchingCount"`
	ReadyCount     int64   `json:"readyCount"`
	DeliveredCount int64   `json:"deliveredCount"`
	OverdueCount   int64   `json:"overdueCount"`
}

// GetBillStats computes counts and money totals across live bills. The
// pending total sums the derived balance_due column.
func GetBillStats(db *gorm.DB, bookID *uuid.UUID, asOf time.Time) (*BillStats, error) {
	today := utils.BeginningOfDay(asOf)
	q := db.Model(&models.Bill{}).Select(`
		COUNT(*) AS total_bills,
		COALESCE(SUM(total_amount), 0) AS total_value,
		COALESCE(SUM(advance_paid), 0) AS total_collected,
		COALESCE(SUM(balance_due), 0) AS total_pending,
		COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_count,
		COUNT(CASE WHEN status = 'cutting' THEN 1 END) AS cutting_count,
		COUNT(CASE WHEN status = 'stitching' THEN 1 END) AS stitching_count,
		COUNT(CASE WHEN status = 'ready' THEN 1 END) AS ready_count,
		COUNT(CASE WHEN status = 'delivered' THEN 1 END) AS delivered_count,
		COUNT(CASE WHEN delivery_date < ? AND status NOT IN ('delivered', 'cancelled') THEN 1 END) AS overdue_count`,
		today)
	if bookID != nil {
		q = q.Where("book_id = ?", *bookID)
	}
	var stats BillStats
	if err := q.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
