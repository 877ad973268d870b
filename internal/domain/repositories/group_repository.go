package repositories

import (
	"context"

	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/pkg/utils"
)

// GroupRepository defines group and membership operations
type GroupRepository interface {
	// Upsert creates the group or refreshes its description and permissions
	Upsert(ctx context.Context, group *entities.Group) error
	GetByRole(ctx context.Context, role entities.Role) (*entities.Group, error)
	List(ctx context.Context) ([]*entities.Group, error)
	// SetAccountGroup clears every membership of the account then adds the single group
	SetAccountGroup(ctx context.Context, accountID, groupID uuid.UUID) error
	ListAccountGroups(ctx context.Context, accountID uuid.UUID) ([]*entities.Group, error)
	CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error)
	ListMembers(ctx context.Context, groupID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Account, int64, error)
}
