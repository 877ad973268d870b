package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/internal/infrastructure/models"
	"realestate.backend/pkg/utils"
)

// StatusEventRepository implements the account lifecycle history
type StatusEventRepository struct {
	db *gorm.DB
}

// NewStatusEventRepository creates a new status event repository
func NewStatusEventRepository(db *gorm.DB) *StatusEventRepository {
	return &StatusEventRepository{db: db}
}

// Create appends an event
func (r *StatusEventRepository) Create(ctx context.Context, event *entities.StatusEvent) error {
	if event.ID == uuid.Nil {
		event.ID = utils.GenerateUUIDv7()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m := &models.AccountStatusEvent{
		ID:         event.ID,
		AccountID:  event.AccountID,
		ActorID:    event.ActorID,
		Action:     string(event.Action),
		FromStatus: string(event.FromStatus),
		ToStatus:   string(event.ToStatus),
		FromRole:   string(event.FromRole),
		ToRole:     string(event.ToRole),
		Reason:     event.Reason,
		CreatedAt:  event.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// ListByAccount returns an account's history, oldest first
func (r *StatusEventRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.StatusEvent, error) {
	var rows []models.AccountStatusEvent
	if err := GetDB(ctx, r.db).Where("account_id = ?", accountID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]*entities.StatusEvent, 0, len(rows))
	for _, m := range rows {
		events = append(events, &entities.StatusEvent{
			ID:         m.ID,
			AccountID:  m.AccountID,
			ActorID:    m.ActorID,
			Action:     entities.StatusAction(m.Action),
			FromStatus: entities.AccountStatus(m.FromStatus),
			ToStatus:   entities.AccountStatus(m.ToStatus),
			FromRole:   entities.Role(m.FromRole),
			ToRole:     entities.Role(m.ToRole),
			Reason:     m.Reason,
			CreatedAt:  m.CreatedAt,
		})
	}
	return events, nil
}
