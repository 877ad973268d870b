package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/infrastructure/models"
	"realestate.backend/pkg/utils"
)

// AccountTokenRepository stores single-use tokens in one of the token tables
type AccountTokenRepository struct {
	db    *gorm.DB
	table string
}

// NewEmailVerificationRepository stores email verification tokens
func NewEmailVerificationRepository(db *gorm.DB) *AccountTokenRepository {
	return &AccountTokenRepository{db: db, table: models.EmailVerification{}.TableName()}
}

// NewPasswordResetRepository stores password reset tokens
func NewPasswordResetRepository(db *gorm.DB) *AccountTokenRepository {
	return &AccountTokenRepository{db: db, table: models.PasswordReset{}.TableName()}
}

// both token tables share this row layout
type accountTokenRow struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Create stores a token
func (r *AccountTokenRepository) Create(ctx context.Context, token *entities.AccountToken) error {
	if token.ID == uuid.Nil {
		token.ID = utils.GenerateUUIDv7()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	row := &accountTokenRow{
		ID:        token.ID,
		AccountID: token.AccountID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		UsedAt:    token.UsedAt,
		CreatedAt: token.CreatedAt,
	}
	return GetDB(ctx, r.db).Table(r.table).Create(row).Error
}

// GetByToken finds a token by its value, used or not
func (r *AccountTokenRepository) GetByToken(ctx context.Context, token string) (*entities.AccountToken, error) {
	var row accountTokenRow
	if err := GetDB(ctx, r.db).Table(r.table).Where("token = ?", token).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.AccountToken{
		ID:        row.ID,
		AccountID: row.AccountID,
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
		UsedAt:    row.UsedAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

// MarkUsed consumes a token. A token can only be consumed once.
func (r *AccountTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Table(r.table).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired purges tokens past their expiry
func (r *AccountTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := GetDB(ctx, r.db).Table(r.table).Where("expires_at < ?", time.Now()).Delete(&accountTokenRow{})
	return result.RowsAffected, result.Error
}
