package store

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tailortrack-backend/models"
)

// AddPhone attaches a number to a live customer. When the new phone is
// flagged primary, every other phone of that customer is demoted in the same
// transaction so at most one primary exists.
func AddPhone(db *gorm.DB, phone *models.Phone) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Select("id").First(&customer, "id = ?", phone.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if phone.IsPrimary {
			if err := tx.Model(&models.Phone{}).
				Where("customer_id = ?", phone.CustomerID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(phone).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePhone
			}
			return err
		}
		return nil
	})
}

// SetPrimaryPhone makes one phone the customer's primary contact: unset every
// primary for the customer, then set the target, atomically.
func SetPrimaryPhone(db *gorm.DB, customerID, phoneID uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Phone{}).
			Where("customer_id = ?", customerID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Phone{}).
			Where("id = ? AND customer_id = ?", phoneID, customerID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&phone, "id = ?", phoneID).Error
	})
	if err != nil {
		return nil, err
	}
	return &phone, nil
}

// DeletePhone removes a customer's phone. Hard delete; numbers carry no
// history worth keeping.
func DeletePhone(db *gorm.DB, customerID, phoneID uuid.UUID) error {
	res := db.Where("id = ? AND customer_id = ?", phoneID, customerID).Delete(&models.Phone{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PhonesByCustomer lists a customer's phones, primary first.
func PhonesByCustomer(db *gorm.DB, customerID uuid.UUID) ([]models.Phone, error) {
	phones := []models.Phone{}
	err := db.Where("customer_id = ?", customerID).
		Order("is_primary DESC, created_at ASC").
		Find(&phones).Error
	return phones, err
}
