package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tailortrack-backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Phone{},
		&models.Book{},
		&models.Bill{},
		&models.BillMeasurement{},
		&models.GarmentType{},
		&models.DeliveryReminderLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestBook(t *testing.T, db *gorm.DB, name string, startSerial int, current bool) *models.Book {
	t.Helper()
	book := models.Book{Name: name, StartSerial: startSerial, IsCurrent: current}
	if err := CreateBook(db, &book); err != nil {
		t.Fatalf("failed to create book %q: %v", name, err)
	}
	return &book
}

func createTestCustomer(t *testing.T, db *gorm.DB, name, phone string) *models.Customer {
	t.Helper()
	customer := models.Customer{Name: name}
	phones := []models.Phone{{Phone: phone}}
	if err := CreateCustomer(db, &customer, phones); err != nil {
		t.Fatalf("failed to create customer %q: %v", name, err)
	}
	return &customer
}

func createTestBill(t *testing.T, db *gorm.DB, book *models.Book, customer *models.Customer, folio int, total, advance float64) *models.Bill {
	t.Helper()
	bill := models.Bill{
		BookID:      book.ID,
		CustomerID:  customer.ID,
		FolioNumber: folio,
		BillDate:    time.Now(),
		TotalAmount: total,
		AdvancePaid: advance,
		Status:      models.StatusPending,
	}
	if err := CreateBill(db, &bill); err != nil {
		t.Fatalf("failed to create bill folio %d: %v", folio, err)
	}
	return &bill
}

func dateDaysFromNow(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}

func setDeliveryDate(t *testing.T, db *gorm.DB, billID uuid.UUID, date *time.Time) {
	t.Helper()
	if err := db.Model(&models.Bill{}).Where("id = ?", billID).Update("delivery_date", date).Error; err != nil {
		t.Fatalf("failed to set delivery date: %v", err)
	}
}
