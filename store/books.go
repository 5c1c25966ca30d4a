package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tailortrack-backend/models"
)

// BookSummary is a book row together with usage figures derived from its
// live bills.
type BookSummary struct {
	models.Book
	BillCount int64 `json:"billCount"`
	LastFolio *int  `json:"lastFolio"`
}

// NextFolio returns the next free folio number for a book: one past the
// highest live folio, or the book's start serial when the book has no bills
// yet. The value is advisory; the unique index on (book_id, folio_number)
// remains authoritative at insert time, so two callers may be handed the same
// number and the second insert fails with ErrDuplicateFolio.
func NextFolio(db *gorm.DB, bookID uuid.UUID) (int, error) {
	var book models.Book
	if err := db.First(&book, "id = ?", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var maxFolio *int
	if err := db.Model(&models.Bill{}).
		Where("book_id = ?", bookID).
		Select("MAX(folio_number)").
		Scan(&maxFolio).Error; err != nil {
		return 0, err
	}
	if maxFolio == nil {
		return book.StartSerial, nil
	}
	return *maxFolio + 1, nil
}

// FolioExists reports whether a live bill already occupies the folio in the
// given book. Used by the client to warn before submission; not authoritative.
func FolioExists(db *gorm.DB, bookID uuid.UUID, folio int) (bool, error) {
	var count int64
	err := db.Model(&models.Bill{}).
		Where("book_id = ? AND folio_number = ?", bookID, folio).
		Count(&count).Error
	return count > 0, err
}

// CreateBook inserts a new book. When the book is marked current, every other
// current flag is cleared in the same transaction so the singleton holds.
func CreateBook(db *gorm.DB, book *models.Book) error {
	if !book.IsCurrent {
		return db.Create(book).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := clearCurrentFlags(tx, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(book).Error
	})
}

// SaveBook persists field changes on a book. Turning is_current on clears all
// other books first, in one transaction; turning it off never touches other
// rows.
func SaveBook(db *gorm.DB, book *models.Book) error {
	if !book.IsCurrent {
		return db.Save(book).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := clearCurrentFlags(tx, book.ID); err != nil {
			return err
		}
		return tx.Save(book).Error
	})
}

// SetCurrentBook makes the given book the only current one. Clear and set run
// in a single transaction so concurrent readers never observe zero or two
// current books. A missing book is rejected before any flag is touched.
func SetCurrentBook(db *gorm.DB, bookID uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, "id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := clearCurrentFlags(tx, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Model(&book).Update("is_current", true).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	book.IsCurrent = true
	return &book, nil
}

func clearCurrentFlags(tx *gorm.DB, except uuid.UUID) error {
	q := tx.Model(&models.Book{}).Where("is_current = ?", true)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	return q.Update("is_current", false).Error
}

// CurrentBook returns the book flagged current, or ErrNotFound when no book
// is current.
func CurrentBook(db *gorm.DB) (*BookSummary, error) {
	var out BookSummary
	err := summaryQuery(db).Where("books.is_current = ?", true).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBook returns one book with its bill count and last folio.
func GetBook(db *gorm.DB, bookID uuid.UUID) (*BookSummary, error) {
	var out BookSummary
	err := summaryQuery(db).Where("books.id = ?", bookID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBooks returns all books, newest first, each with usage figures.
func ListBooks(db *gorm.DB) ([]BookSummary, error) {
	out := []BookSummary{}
	err := summaryQuery(db).Order("books.created_at DESC").Find(&out).Error
	return out, err
}

func summaryQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Book{}).
		Select("books.*, COUNT(bills.id) AS bill_count, MAX(bills.folio_number) AS last_folio").
		Joins("LEFT JOIN bills ON bills.book_id = books.id AND bills.deleted_at IS NULL").
		Group("books.id")
}

// DeleteBook removes a book, but only when no bill has ever been written
// against it. Soft-deleted bills still reference the book, so they count too.
func DeleteBook(db *gorm.DB, bookID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, "id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var bills int64
		if err := tx.Model(&models.Bill{}).Unscoped().
			Where("book_id = ?", bookID).
			Count(&bills).Error; err != nil {
			return err
		}
		if bills > 0 {
			return ErrBookHasBills
		}
		return tx.Delete(&book).Error
	})
}
