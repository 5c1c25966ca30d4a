package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tailortrack-backend/models"
	"tailortrack-backend/utils"
)

// CreateUser inserts a staff account. Names are unique.
func CreateUser(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// VerifyPin checks a user's PIN and returns the account when it matches.
// Inactive users cannot log in.
func VerifyPin(db *gorm.DB, name, pin string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "name = ? AND is_active = ?", name, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPin(pin, user.PinHash) {
		return nil, ErrNotFound
	}
	now := time.Now()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser returns one account by ID.
func GetUser(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all accounts, oldest first.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	users := []models.User{}
	err := db.Order("created_at ASC").Find(&users).Error
	return users, err
}

// SaveUser persists role/name/active changes. Users are never hard-deleted.
func SaveUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

// ChangePin replaces a user's PIN hash.
func ChangePin(db *gorm.DB, userID uuid.UUID, pinHash string) error {
	res := db.Model(&models.User{}).Where("id = ?", userID).Update("pin_hash", pinHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
