package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Account struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string     `gorm:"type:varchar(255);not null"`
	FirstName       string     `gorm:"type:varchar(150)"`
	LastName        string     `gorm:"type:varchar(150)"`
	Phone           string     `gorm:"type:varchar(15)"`
	Address         string     `gorm:"type:text"`
	Role            string     `gorm:"type:varchar(20);not null;default:'buyer';index"`
	AccountStatus   string     `gorm:"type:varchar(20);not null;default:'unverified';index"`
	IsEmailVerified bool       `gorm:"not null;default:false"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	ReviewNotes     *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Account) TableName() string { return "accounts" }
