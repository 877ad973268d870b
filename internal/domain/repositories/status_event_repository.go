package repositories

import (
	"context"

	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
)

// StatusEventRepository is the append-only lifecycle history
type StatusEventRepository interface {
	Create(ctx context.Context, event *entities.StatusEvent) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.StatusEvent, error)
}
