package usecases

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/domain/repositories"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/utils"
)

// GroupUsecase manages the role groups and their permissions
type GroupUsecase struct {
	uow       repositories.UnitOfWork
	groupRepo repositories.GroupRepository
}

// NewGroupUsecase creates a new group usecase
func NewGroupUsecase(uow repositories.UnitOfWork, groupRepo repositories.GroupRepository) *GroupUsecase {
	return &GroupUsecase{uow: uow, groupRepo: groupRepo}
}

// SeedGroups creates or refreshes the five role groups. Safe to run repeatedly.
func (u *GroupUsecase) SeedGroups(ctx context.Context) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		for _, seed := range entities.DefaultGroups() {
			group := &entities.Group{
				Name:        seed.Role.GroupName(),
				Role:        seed.Role,
				Description: seed.Description,
				Permissions: seed.Permissions,
			}
			if err := u.groupRepo.Upsert(txCtx, group); err != nil {
				return err
			}
			logger.Debug(txCtx, "Group seeded",
				zap.String("group", group.Name),
				zap.Int("permissions", len(group.Permissions)),
			)
		}
		return nil
	})
}

// ListGroups returns every group with its permissions
func (u *GroupUsecase) ListGroups(ctx context.Context) ([]*entities.Group, error) {
	return u.groupRepo.List(ctx)
}

// GroupStats returns member and permission counts per group
func (u *GroupUsecase) GroupStats(ctx context.Context) ([]*entities.GroupStats, error) {
	groups, err := u.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]*entities.GroupStats, 0, len(groups))
	for _, g := range groups {
		count, err := u.groupRepo.CountMembers(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, &entities.GroupStats{
			Name:            g.Name,
			Role:            g.Role,
			UserCount:       count,
			PermissionCount: len(g.Permissions),
		})
	}
	return stats, nil
}

// ListMembers lists the accounts in the group of role
func (u *GroupUsecase) ListMembers(ctx context.Context, role entities.Role, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	if !role.Valid() {
		return nil, 0, domainerrors.Validation("Invalid user type")
	}
	group, err := u.groupRepo.GetByRole(ctx, role)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, 0, domainerrors.NotFound("Group not found")
		}
		return nil, 0, err
	}
	return u.groupRepo.ListMembers(ctx, group.ID, pagination)
}
