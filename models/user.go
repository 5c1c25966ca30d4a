package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleHelper = "helper"
)

type User struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"uniqueIndex;not null"`
	PinHash string    `gorm:"not null" json:"-"`

	// No default tag: gorm drops zero-value fields that carry one, which
	// would turn IsActive=false into true on insert. Callers set it.
	Role     string `gorm:"type:varchar(20);not null;default:'helper'"` // 'admin' or 'helper'
	IsActive bool   `gorm:"not null"`

	LastLogin *time.Time

	gorm.Model
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
