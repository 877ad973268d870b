package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/infrastructure/models"
	"realestate.backend/pkg/utils"
)

// AccountRepository implements account data operations
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	m := toAccountModel(account)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// GetByEmail gets an account by email, case-insensitively
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).Where("email = ?", entities.NormalizeEmail(email)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toAccountEntity(&m), nil
}

// Update writes the mutable columns of an account
func (r *AccountRepository) Update(ctx context.Context, account *entities.Account) error {
	account.UpdatedAt = time.Now()
	m := toAccountModel(account)
	updates := map[string]interface{}{
		"first_name":        m.FirstName,
		"last_name":         m.LastName,
		"phone":             m.Phone,
		"address":           m.Address,
		"role":              m.Role,
		"account_status":    m.AccountStatus,
		"is_email_verified": m.IsEmailVerified,
		"approved_by":       m.ApprovedBy,
		"approved_at":       m.ApprovedAt,
		"rejection_reason":  m.RejectionReason,
		"review_notes":      m.ReviewNotes,
		"updated_at":        m.UpdatedAt,
	}

	result := GetDB(ctx, r.db).Model(&models.Account{}).Where("id = ?", account.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the password hash of an account
func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := GetDB(ctx, r.db).Model(&models.Account{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists accounts matching filter, newest first
func (r *AccountRepository) List(ctx context.Context, filter entities.AccountFilter, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Account{})

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", term, term, term)
	}
	if filter.Status != "" {
		query = query.Where("account_status = ?", string(filter.Status))
	}
	if filter.Role != "" {
		query = query.Where("role = ?", string(filter.Role))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
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

func toAccountModel(a *entities.Account) *models.Account {
	return &models.Account{
		ID:              a.ID,
		Email:           entities.NormalizeEmail(a.Email),
		PasswordHash:    a.PasswordHash,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Phone:           a.Phone,
		Address:         a.Address,
		Role:            string(a.Role),
		AccountStatus:   string(a.Status),
		IsEmailVerified: a.IsEmailVerified,
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      a.ApprovedAt.Ptr(),
		RejectionReason: a.RejectionReason.Ptr(),
		ReviewNotes:     a.ReviewNotes.Ptr(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAccountEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:              m.ID,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Phone:           m.Phone,
		Address:         m.Address,
		Role:            entities.Role(m.Role),
		Status:          entities.AccountStatus(m.AccountStatus),
		IsEmailVerified: m.IsEmailVerified,
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      null.TimeFromPtr(m.ApprovedAt),
		RejectionReason: null.StringFromPtr(m.RejectionReason),
		ReviewNotes:     null.StringFromPtr(m.ReviewNotes),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// isUniqueViolation matches the duplicate key errors of postgres and sqlite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
