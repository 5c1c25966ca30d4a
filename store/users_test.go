package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"tailortrack-backend/models"
	"tailortrack-backend/utils"
)

func TestVerifyPin(t *testing.T) {
	db := setupTestDB(t)

	hash, err := utils.HashPin("4321")
	if err != nil {
		t.Fatalf("HashPin failed: %v", err)
	}
	user := models.User{Name: "meena", PinHash: hash, Role: models.RoleHelper, IsActive: true}
	if err := CreateUser(db, &user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := VerifyPin(db, "meena", "4321")
	if err != nil {
		t.Fatalf("VerifyPin failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected matching user")
	}
	if got.LastLogin == nil {
		// last_login is written on success; reload to check
		reloaded, _ := GetUser(db, user.ID)
		if reloaded.LastLogin == nil {
			t.Errorf("expected last_login recorded")
		}
	}

	if _, err := VerifyPin(db, "meena", "0000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected wrong PIN rejected, got %v", err)
	}
	if _, err := VerifyPin(db, "nobody", "4321"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected unknown user rejected, got %v", err)
	}
}

func TestVerifyPinInactiveUser(t *testing.T) {
	db := setupTestDB(t)

	hash, _ := utils.HashPin("4321")
	user := models.User{Name: "meena", PinHash: hash, Role: models.RoleHelper, IsActive: false}
	if err := CreateUser(db, &user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := VerifyPin(db, "meena", "4321"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected inactive user rejected, got %v", err)
	}

	// The false flag must survive the insert as written
	reloaded, err := GetUser(db, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.IsActive {
		t.Errorf("expected is_active stored as false")
	}
}

func TestCreateUserDuplicateName(t *testing.T) {
	db := setupTestDB(t)

	hash, _ := utils.HashPin("4321")
	if err := CreateUser(db, &models.User{Name: "meena", PinHash: hash, Role: models.RoleHelper, IsActive: true}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	err := CreateUser(db, &models.User{Name: "meena", PinHash: hash, Role: models.RoleAdmin, IsActive: true})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestChangePin(t *testing.T) {
	db := setupTestDB(t)

	hash, _ := utils.HashPin("4321")
	user := models.User{Name: "meena", PinHash: hash, Role: models.RoleHelper, IsActive: true}
	if err := CreateUser(db, &user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	newHash, _ := utils.HashPin("9999")
	if err := ChangePin(db, user.ID, newHash); err != nil {
		t.Fatalf("ChangePin failed: %v", err)
	}

	if _, err := VerifyPin(db, "meena", "4321"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old PIN rejected after change, got %v", err)
	}
	if _, err := VerifyPin(db, "meena", "9999"); err != nil {
		t.Errorf("expected new PIN accepted, got %v", err)
	}

	if err := ChangePin(db, uuid.New(), newHash); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}
