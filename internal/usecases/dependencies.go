package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/pkg/crypto"
	"realestate.backend/pkg/redis"
)

// AccountNotifier sends lifecycle emails. Implementations must not block.
type AccountNotifier interface {
	Welcome(ctx context.Context, a *entities.Account, wf entities.Workflow)
	VerificationEmail(ctx context.Context, a *entities.Account, token string)
	StatusChanged(ctx context.Context, a *entities.Account, action entities.StatusAction, reason string)
	RoleChanged(ctx context.Context, a *entities.Account, previous entities.Role)
	PasswordReset(ctx context.Context, a *entities.Account, token string)
	PasswordChanged(ctx context.Context, a *entities.Account)
}

// PasswordValidator checks a candidate password against the password policy
type PasswordValidator interface {
	ValidatePassword(password string, personal ...string) error
}

// TokenRevoker tracks revoked refresh tokens by jti
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionStore keeps server side login sessions
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

var (
	timeNow              = time.Now
	newVerificationToken = crypto.GenerateVerificationToken
	newResetToken        = crypto.GenerateResetToken
	newSessionID         = uuid.NewString
)
