package repositories

import (
	"context"

	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
)

// ProfileRepository stores role profiles, one table per role
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByAccount(ctx context.Context, accountID uuid.UUID, role entities.Role) (*entities.Profile, error)
	Update(ctx context.Context, profile *entities.Profile) error
}
