package repositories

import (
	"context"

	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/pkg/utils"
)

// AccountRepository defines account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)
	// Update persists profile fields, status, role and approval metadata
	Update(ctx context.Context, account *entities.Account) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	List(ctx context.Context, filter entities.AccountFilter, pagination utils.PaginationParams) ([]*entities.Account, int64, error)
}

// AccountTokenRepository stores single-use account tokens
type AccountTokenRepository interface {
	Create(ctx context.Context, token *entities.AccountToken) error
	GetByToken(ctx context.Context, token string) (*entities.AccountToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
