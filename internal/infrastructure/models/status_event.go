package models

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatusEvent struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Action     string     `gorm:"type:varchar(40);not null"`
	FromStatus string     `gorm:"type:varchar(20)"`
	ToStatus   string     `gorm:"type:varchar(20);not null"`
	FromRole   string     `gorm:"type:varchar(20)"`
	ToRole     string     `gorm:"type:varchar(20);not null"`
	Reason     string     `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"index"`
}

func (AccountStatusEvent) TableName() string { return "account_status_events" }
