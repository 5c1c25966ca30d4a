package store

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tailortrack-backend/models"
)

const (
	duplicateNameThreshold    = 0.8
	duplicateAddressThreshold = 0.7
	searchNameThreshold       = 0.3
)

// FindDuplicateCustomers runs the pre-insert duplicate gate: live customers
// whose name is very close to the candidate's (or whose address is close),
// top 5 by name similarity. Creation is blocked while this returns anything,
// unless the caller explicitly forces it.
func FindDuplicateCustomers(db *gorm.DB, name, address string) ([]models.Customer, error) {
	if usesTrigram(db) {
		customers := []models.Customer{}
		err := db.Preload("Phones").
			Where("similarity(name, ?) >= ? OR (address IS NOT NULL AND similarity(address, ?) >= ?)",
				name, duplicateNameThreshold, address, duplicateAddressThreshold).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "similarity(name, ?) DESC",
				Vars:               []interface{}{name},
				WithoutParentheses: true,
			}}).
			Limit(5).
			Find(&customers).Error
		return customers, err
	}
	return rankBySimilarity(db, name, func(nameScore, addrScore float64) bool {
		return nameScore >= duplicateNameThreshold || addrScore >= duplicateAddressThreshold
	}, address, 5)
}

// SearchCustomersByName fuzzy-searches live customers, best match first.
func SearchCustomersByName(db *gorm.DB, q string) ([]models.Customer, error) {
	if usesTrigram(db) {
		customers := []models.Customer{}
		err := db.Preload("Phones").
			Where("similarity(name, ?) > ?", q, searchNameThreshold).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "similarity(name, ?) DESC",
				Vars:               []interface{}{q},
				WithoutParentheses: true,
			}}).
			Limit(20).
			Find(&customers).Error
		return customers, err
	}
	return rankBySimilarity(db, q, func(nameScore, _ float64) bool {
		return nameScore > searchNameThreshold
	}, "", 20)
}

// rankBySimilarity is the in-process fallback path for non-Postgres stores.
func rankBySimilarity(db *gorm.DB, name string, match func(nameScore, addrScore float64) bool, address string, limit int) ([]models.Customer, error) {
	var candidates []models.Customer
	if err := db.Preload("Phones").Find(&candidates).Error; err != nil {
		return nil, err
	}
	type scored struct {
		customer models.Customer
		score    float64
	}
	hits := []scored{}
	for _, c := range candidates {
		nameScore := trigramSimilarity(name, c.Name)
		addrScore := 0.0
		if address != "" && c.Address != "" {
			addrScore = trigramSimilarity(address, c.Address)
		}
		if match(nameScore, addrScore) {
			hits = append(hits, scored{customer: c, score: nameScore})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := []models.Customer{}
	for _, h := range hits {
		out = append(out, h.customer)
	}
	return out, nil
}

// SearchCustomersByPhone finds live customers owning a phone number that
// contains the query.
func SearchCustomersByPhone(db *gorm.DB, q string) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := db.Preload("Phones").
		Where("id IN (?)", db.Model(&models.Phone{}).
			Select("customer_id").
			Where("phone LIKE ?", "%"+q+"%")).
		Order("name ASC").
		Limit(20).
		Find(&customers).Error
	return customers, err
}

// CreateCustomer inserts a customer and their phone numbers in one
// transaction. The first phone becomes primary unless one is flagged
// explicitly. A phone already registered to any customer aborts the whole
// insert with ErrDuplicatePhone.
func CreateCustomer(db *gorm.DB, customer *models.Customer, phones []models.Phone) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		hasPrimary := false
		for _, p := range phones {
			if p.IsPrimary {
				hasPrimary = true
				break
			}
		}
		for i := range phones {
			phones[i].CustomerID = customer.ID
			if !hasPrimary && i == 0 {
				phones[i].IsPrimary = true
			}
			if err := tx.Create(&phones[i]).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicatePhone
				}
				return err
			}
		}
		return nil
	})
}

// GetCustomer loads a live customer with phones, primary first.
func GetCustomer(db *gorm.DB, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := db.Preload("Phones", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_primary DESC, created_at ASC")
	}).First(&customer, "id = ?", customerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if customer.Phones == nil {
		customer.Phones = []models.Phone{}
	}
	return &customer, nil
}

// ListCustomers pages through live customers, newest first.
func ListCustomers(db *gorm.DB, limit, offset int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	customers := []models.Customer{}
	err := db.Preload("Phones").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error
	return customers, err
}

// SaveCustomer persists field changes on a customer.
func SaveCustomer(db *gorm.DB, customer *models.Customer) error {
	return db.Save(customer).Error
}

// SoftDeleteCustomer hides a customer from every read path while keeping the
// row so bill history stays intact.
func SoftDeleteCustomer(db *gorm.DB, customerID uuid.UUID, userID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Customer{}).
			Where("id = ?", customerID).
			Update("updated_by_user_id", userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&models.Customer{}, "id = ?", customerID).Error
	})
}

// CustomerStats summarizes a customer's live bills.
type CustomerStats struct {
	TotalBills      int64      `json:"totalBills"`
	TotalValue      float64    `json:"totalValue"`
	FirstVisit      *time.Time `json:"firstVisit"`
	LastVisit       *time.Time `json:"lastVisit"`
	PendingOrders   int64      `json:"pendingOrders"`
	TotalBalanceDue float64    `json:"totalBalanceDue"`
}

// GetCustomerStats aggregates bill history for one customer.
func GetCustomerStats(db *gorm.DB, customerID uuid.UUID) (*CustomerStats, error) {
	var stats CustomerStats
	err := db.Model(&models.Bill{}).
		Select(`COUNT(id) AS total_bills,
			COALESCE(SUM(total_amount), 0) AS total_value,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_orders,
			COALESCE(SUM(balance_due), 0) AS total_balance_due`).
		Where("customer_id = ?", customerID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalBills == 0 {
		return &stats, nil
	}

	// MIN/MAX over a date column comes back untyped from sqlite, so the
	// first and last visits are read with ordered lookups instead.
	var first, last models.Bill
	if err := db.Select("bill_date").
		Where("customer_id = ?", customerID).
		Order("bill_date ASC").
		First(&first).Error; err != nil {
		return nil, err
	}
	if err := db.Select("bill_date").
		Where("customer_id = ?", customerID).
		Order("bill_date DESC").
		First(&last).Error; err != nil {
		return nil, err
	}
	stats.FirstVisit = &first.BillDate
	stats.LastVisit = &last.BillDate
	return &stats, nil
}
