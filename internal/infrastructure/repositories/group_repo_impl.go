package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/infrastructure/models"
	"realestate.backend/pkg/utils"
)

// GroupRepository implements group and membership operations
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Upsert creates the group for its role or refreshes an existing one
func (r *GroupRepository) Upsert(ctx context.Context, group *entities.Group) error {
	perms, err := json.Marshal(group.Permissions)
	if err != nil {
		return err
	}
	db := GetDB(ctx, r.db)
	now := time.Now()

	var existing models.Group
	err = db.Where("role = ?", string(group.Role)).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if group.ID == uuid.Nil {
			group.ID = utils.GenerateUUIDv7()
		}
		group.CreatedAt, group.UpdatedAt = now, now
		return db.Create(&models.Group{
			ID:          group.ID,
			Name:        group.Name,
			Role:        string(group.Role),
			Description: group.Description,
			Permissions: datatypes.JSON(perms),
			CreatedAt:   now,
			UpdatedAt:   now,
		}).Error
	case err != nil:
		return err
	}

	group.ID = existing.ID
	group.CreatedAt = existing.CreatedAt
	group.UpdatedAt = now
	return db.Model(&models.Group{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"name":        group.Name,
		"description": group.Description,
		"permissions": datatypes.JSON(perms),
		"updated_at":  now,
	}).Error
}

// GetByRole gets the group backing a role
func (r *GroupRepository) GetByRole(ctx context.Context, role entities.Role) (*entities.Group, error) {
	var m models.Group
	if err := GetDB(ctx, r.db).Where("role = ?", string(role)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toGroupEntity(&m)
}

// List returns all groups by name
func (r *GroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	var rows []models.Group
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toGroupEntities(rows)
}

// SetAccountGroup replaces every membership of the account with groupID
func (r *GroupRepository) SetAccountGroup(ctx context.Context, accountID, groupID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("account_id = ?", accountID).Delete(&models.AccountGroup{}).Error; err != nil {
		return err
	}
	return db.Create(&models.AccountGroup{
		AccountID: accountID,
		GroupID:   groupID,
		CreatedAt: time.Now(),
	}).Error
}

// ListAccountGroups returns the groups an account belongs to
func (r *GroupRepository) ListAccountGroups(ctx context.Context, accountID uuid.UUID) ([]*entities.Group, error) {
	var rows []models.Group
	err := GetDB(ctx, r.db).
		Joins(`JOIN account_groups ag ON ag.group_id = "groups".id`).
		Where("ag.account_id = ?", accountID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGroupEntities(rows)
}

// CountMembers counts active accounts in a group
func (r *GroupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.Account{}).
		Joins("JOIN account_groups ag ON ag.account_id = accounts.id").
		Where("ag.group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// ListMembers lists the accounts of a group, newest first
func (r *GroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Account{}).
		Joins("JOIN account_groups ag ON ag.account_id = accounts.id").
		Where("ag.group_id = ?", groupID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("accounts.created_at DESC")
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}

	var rows []models.Account
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	accounts := make([]*entities.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, toAccountEntity(&rows[i]))
	}
	return accounts, total, nil
}

func toGroupEntities(rows []models.Group) ([]*entities.Group, error) {
	groups := make([]*entities.Group, 0, len(rows))
	for i := range rows {
		g, err := toGroupEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func toGroupEntity(m *models.Group) (*entities.Group, error) {
	var perms []string
	if len(m.Permissions) > 0 {
		if err := json.Unmarshal(m.Permissions, &perms); err != nil {
			return nil, err
		}
	}
	return &entities.Group{
		ID:          m.ID,
		Name:        m.Name,
		Role:        entities.Role(m.Role),
		Description: m.Description,
		Permissions: perms,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}
