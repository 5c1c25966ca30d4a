package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"tailortrack-backend/models"
)

func TestNextFolioEmptyBook(t *testing.T) {
	db := setupTestDB(t)
	book := createTestBook(t, db, "Book 2025", 100, true)

	folio, err := NextFolio(db, book.ID)
	if err != nil {
		t.Fatalf("NextFolio failed: %v", err)
	}
	if folio != 100 {
		t.Errorf("expected start serial 100 for empty book, got %d", folio)
	}
}

func TestNextFolioFollowsHighest(t *testing.T) {
	db := setupTestDB(t)
	book := createTestBook(t, db, "Book 2025", 1, true)
	customer := createTestCustomer(t, db, "Ramesh", "9876543210")

	createTestBill(t, db, book, customer, 5, 500, 0)
	createTestBill(t, db, book, customer, 6, 700, 0)

	folio, err := NextFolio(db, book.ID)
	if err != nil {
		t.Fatalf("NextFolio failed: %v", err)
	}
	if folio != 7 {
		t.Errorf("expected next folio 7, got %d", folio)
	}
}

func TestNextFolioMissingBook(t *testing.T) {
	db := setupTestDB(t)

	if _, err := NextFolio(db, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown book, got %v", err)
	}
}

func TestFolioCollision(t *testing.T) {
	db := setupTestDB(t)
	book := createTestBook(t, db, "Book 2025", 1, true)
	customer := createTestCustomer(t, db, "Ramesh", "9876543210")

	createTestBill(t, db, book, customer, 7, 500, 0)

	dup := models.Bill{
		BookID:      book.ID,
		CustomerID:  customer.ID,
		FolioNumber: 7,
		BillDate:    book.CreatedAt,
		Status:      models.StatusPending,
	}
	if err := CreateBill(db, &dup); !errors.Is(err, ErrDuplicateFolio) {
		t.Fatalf("expected ErrDuplicateFolio, got %v", err)
	}

	// The same folio in a different book is fine
	other := createTestBook(t, db, "Book 2026", 1, false)
	createTestBill(t, db, other, customer, 7, 300, 0)
}

func TestFolioFreedBySoftDelete(t *testing.T) {
	db := setupTestDB(t)
	book := createTestBook(t, db, "Book 2025", 1, true)
	customer := createTestCustomer(t, db, "Ramesh", "9876543210")

	bill := createTestBill(t, db, book, customer, 12, 500, 0)
	if err := SoftDeleteBill(db, bill.ID, uuid.Nil); err != nil {
		t.Fatalf("SoftDeleteBill failed: %v", err)
	}

	// Folio 12 is free again among live bills
	createTestBill(t, db, book, customer, 12, 800, 0)
}

func TestSetCurrentBookSwitch(t *testing.T) {
	db := setupTestDB(t)
	a := createTestBook(t, db, "Book A", 1, true)
	b := createTestBook(t, db, "Book B", 1, false)

	if _, err := SetCurrentBook(db, b.ID); err != nil {
		t.Fatalf("SetCurrentBook failed: %v", err)
	}

	current, err := CurrentBook(db)
	if err != nil {
		t.Fatalf("CurrentBook failed: %v", err)
	}
	if current.ID != b.ID {
		t.Errorf("expected book B current, got %s", current.Name)
	}

	var count int64
	db.Model(&models.Book{}).Where("is_current = ?", true).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one current book, got %d", count)
	}
	_ = a
}

func TestSetCurrentBookMissingLeavesState(t *testing.T) {
	db := setupTestDB(t)
	a := createTestBook(t, db, "Book A", 1, true)

	if _, err := SetCurrentBook(db, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	current, err := CurrentBook(db)
	if err != nil {
		t.Fatalf("expected book A still current: %v", err)
	}
	if current.ID != a.ID {
		t.Errorf("current book changed after failed switch")
	}
}

func TestCreateBookClearsOtherCurrent(t *testing.T) {
	db := setupTestDB(t)
	createTestBook(t, db, "Book A", 1, true)
	b := createTestBook(t, db, "Book B", 1, true)

	current, err := CurrentBook(db)
	if err != nil {
		t.Fatalf("CurrentBook failed: %v", err)
	}
	if current.ID != b.ID {
		t.Errorf("expected newest current book to win, got %s", current.Name)
	}

	var count int64
	db.Model(&models.Book{}).Where("is_current = ?", true).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one current book, got %d", count)
	}
}

func TestCurrentBookNoneFlagged(t *testing.T) {
	db := setupTestDB(t)
	createTestBook(t, db, "Book A", 1, false)

	if _, err := CurrentBook(db); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound when no book is current, got %v", err)
	}
}

func TestDeleteBookGuards(t *testing.T) {
	db := setupTestDB(t)
	book := createTestBook(t, db, "Book 2025", 1, true)
	customer := createTestCustomer(t, db, "Ramesh", "9876543210")
	bill := createTestBill(t, db, book, customer, 1, 500, 0)

	if err := DeleteBook(db, book.ID); !errors.Is(err, ErrBookHasBills) {
		t.Fatalf("expected ErrBookHasBills, got %v", err)
	}

	// Soft-deleted bills still reference the book and still block deletion
	if err := SoftDeleteBill(db, bill.ID, uuid.Nil); err != nil {
		t.Fatalf("SoftDeleteBill failed: %v", err)
	}
	if err := DeleteBook(db, book.ID); !errors.Is(err, ErrBookHasBills) {
		t.Fatalf("expected ErrBookHasBills for soft-deleted bills, got %v", err)
	}

	empty := createTestBook(t, db, "Empty", 1, false)
	if err := DeleteBook(db, empty.ID); err != nil {
		t.Fatalf("expected delete of empty book to succeed: %v", err)
	}
}

func TestBookSummaryCounts(t *testing.T) {
	db := setupTestDB(t)
	book := createTestBook(t, db, "Book 2025", 1, true)
	customer := createTestCustomer(t, db, "Ramesh", "9876543210")

	createTestBill(t, db, book, customer, 3, 500, 0)
	createTestBill(t, db, book, customer, 9, 700, 0)
	deleted := createTestBill(t, db, book, customer, 11, 100, 0)
	if err := SoftDeleteBill(db, deleted.ID, uuid.Nil); err != nil {
		t.Fatalf("SoftDeleteBill failed: %v", err)
	}

	summary, err := GetBook(db, book.ID)
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if summary.BillCount != 2 {
		t.Errorf("expected bill count 2 (live only), got %d", summary.BillCount)
	}
	if summary.LastFolio == nil || *summary.LastFolio != 9 {
		t.Errorf("expected last folio 9, got %v", summary.LastFolio)
	}
}
