package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Group struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"type:varchar(150);uniqueIndex;not null"`
	Role        string         `gorm:"type:varchar(20);uniqueIndex;not null"`
	Description string         `gorm:"type:text"`
	Permissions datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Group) TableName() string { return "groups" }

// AccountGroup is the membership join table. A single row per account is enforced in code.
type AccountGroup struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (AccountGroup) TableName() string { return "account_groups" }
