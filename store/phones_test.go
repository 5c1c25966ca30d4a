package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"tailortrack-backend/models"
)

func TestAddPhoneDemotesPrimary(t *testing.T) {
	db := setupTestDB(t)
	c := createTestCustomer(t, db, "Ramesh Kumar", "9876543210")

	second := models.Phone{CustomerID: c.ID, Phone: "9876543211", IsPrimary: true}
	if err := AddPhone(db, &second); err != nil {
		t.Fatalf("AddPhone failed: %v", err)
	}

	phones, err := PhonesByCustomer(db, c.ID)
	if err != nil {
		t.Fatalf("PhonesByCustomer failed: %v", err)
	}
	if len(phones) != 2 {
		t.Fatalf("expected 2 phones, got %d", len(phones))
	}
	if phones[0].Phone != "9876543211" || !phones[0].IsPrimary {
		t.Errorf("expected new phone to be primary and listed first")
	}
	if phones[1].IsPrimary {
		t.Errorf("expected old primary demoted")
	}
}

func TestAddPhoneGloballyUnique(t *testing.T) {
	db := setupTestDB(t)
	createTestCustomer(t, db, "Ramesh Kumar", "9876543210")
	other := createTestCustomer(t, db, "Suresh Patel", "9876543211")

	dup := models.Phone{CustomerID: other.ID, Phone: "9876543210"}
	if err := AddPhone(db, &dup); !errors.Is(err, ErrDuplicatePhone) {
		t.Errorf("expected ErrDuplicatePhone across customers, got %v", err)
	}
}

func TestAddPhoneUnknownCustomer(t *testing.T) {
	db := setupTestDB(t)

	phone := models.Phone{CustomerID: uuid.New(), Phone: "9876543210"}
	if err := AddPhone(db, &phone); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPrimaryPhone(t *testing.T) {
	db := setupTestDB(t)
	c := createTestCustomer(t, db, "Ramesh Kumar", "9876543210")
	second := models.Phone{CustomerID: c.ID, Phone: "9876543211"}
	if err := AddPhone(db, &second); err != nil {
		t.Fatalf("AddPhone failed: %v", err)
	}

	updated, err := SetPrimaryPhone(db, c.ID, second.ID)
	if err != nil {
		t.Fatalf("SetPrimaryPhone failed: %v", err)
	}
	if !updated.IsPrimary {
		t.Errorf("expected target phone primary")
	}

	var count int64
	db.Model(&models.Phone{}).Where("customer_id = ? AND is_primary = ?", c.ID, true).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one primary phone, got %d", count)
	}

	if _, err := SetPrimaryPhone(db, c.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown phone, got %v", err)
	}
}

func TestDeletePhone(t *testing.T) {
	db := setupTestDB(t)
	c := createTestCustomer(t, db, "Ramesh Kumar", "9876543210")
	second := models.Phone{CustomerID: c.ID, Phone: "9876543211"}
	if err := AddPhone(db, &second); err != nil {
		t.Fatalf("AddPhone failed: %v", err)
	}

	if err := DeletePhone(db, c.ID, second.ID); err != nil {
		t.Fatalf("DeletePhone failed: %v", err)
	}
	phones, err := PhonesByCustomer(db, c.ID)
	if err != nil {
		t.Fatalf("PhonesByCustomer failed: %v", err)
	}
	if len(phones) != 1 {
		t.Errorf("expected 1 phone left, got %d", len(phones))
	}

	// Deleted number can be registered again
	again := models.Phone{CustomerID: c.ID, Phone: "9876543211"}
	if err := AddPhone(db, &again); err != nil {
		t.Errorf("expected freed number reusable: %v", err)
	}

	if err := DeletePhone(db, c.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown phone, got %v", err)
	}
}
