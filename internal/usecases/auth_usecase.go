package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/domain/repositories"
	"realestate.backend/pkg/crypto"
	"realestate.backend/pkg/jwt"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/metrics"
	"realestate.backend/pkg/redis"
)

const defaultPasswordResetTTL = time.Hour

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	uow         repositories.UnitOfWork
	accountRepo repositories.AccountRepository
	resetRepo   repositories.AccountTokenRepository
	eventRepo   repositories.StatusEventRepository
	lifecycle   *AccountLifecycleUsecase
	jwtService  *jwt.JWTService
	revoker     TokenRevoker
	sessions    SessionStore
	passwords   PasswordValidator
	notifier    AccountNotifier
	resetTTL    time.Duration
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	resetRepo repositories.AccountTokenRepository,
	eventRepo repositories.StatusEventRepository,
	lifecycle *AccountLifecycleUsecase,
	jwtService *jwt.JWTService,
	revoker TokenRevoker,
	sessions SessionStore,
	passwords PasswordValidator,
	notifier AccountNotifier,
	resetTTL time.Duration,
) *AuthUsecase {
	if resetTTL <= 0 {
		resetTTL = defaultPasswordResetTTL
	}
	return &AuthUsecase{
		uow:         uow,
		accountRepo: accountRepo,
		resetRepo:   resetRepo,
		eventRepo:   eventRepo,
		lifecycle:   lifecycle,
		jwtService:  jwtService,
		revoker:     revoker,
		sessions:    sessions,
		passwords:   passwords,
		notifier:    notifier,
		resetTTL:    resetTTL,
	}
}

// Login authenticates an account, applies the platform access gate and returns tokens
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	account, err := u.accountRepo.GetByEmail(ctx, entities.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			metrics.RecordLogin("invalid_credentials")
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, account.PasswordHash) {
		metrics.RecordLogin("invalid_credentials")
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !account.CanAccessPlatform() {
		metrics.RecordLogin("denied")
		logger.Info(ctx, "Login refused by access gate",
			zap.String("account_id", account.ID.String()),
			zap.String("status", string(account.Status)),
		)
		return nil, u.refusal(ctx, account)
	}

	profile, err := u.lifecycle.EnsureProfile(ctx, account)
	if err != nil {
		profile = nil
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, err
	}

	resp := &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		Account:      account,
		Profile:      profile,
	}

	if input.UseSession && u.sessions != nil {
		sessionID := newSessionID()
		err := u.sessions.CreateSession(ctx, sessionID, &redis.SessionData{
			AccountID:    account.ID.String(),
			Role:         string(account.Role),
			RefreshToken: tokenPair.RefreshToken,
			CreatedAt:    timeNow(),
		}, u.jwtService.RefreshExpiry())
		if err != nil {
			return nil, err
		}
		resp.SessionID = sessionID
		resp.RefreshToken = ""
	}

	metrics.RecordLogin("success")
	return resp, nil
}

// refusal builds the login gate error. Accounts still onboarding get a scoped token so they can
// finish their profile and submit it for review.
func (u *AuthUsecase) refusal(ctx context.Context, account *entities.Account) error {
	denial := AccessDenial(account)
	if !account.Onboarding() {
		return denial
	}
	if _, err := u.lifecycle.EnsureProfile(ctx, account); err != nil {
		logger.Warn(ctx, "Onboarding profile unavailable", zap.String("account_id", account.ID.String()), zap.Error(err))
	}
	token, err := u.jwtService.GenerateOnboardingToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		return err
	}
	return denial.
		WithDetail("onboardingToken", token).
		WithDetail("scope", jwt.ScopeOnboarding)
}

// RefreshToken rotates a refresh token. The old token is revoked and the access gate re-checked.
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := u.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domainerrors.ErrTokenRevoked
	}

	account, err := u.lifecycle.CheckPlatformAccess(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, err
	}
	if err := u.revoker.Revoke(ctx, claims.ID, claims.Remaining(timeNow())); err != nil {
		return nil, err
	}
	return tokenPair, nil
}

// Logout revokes the refresh token and drops the session, whichever the client holds
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken, sessionID string) error {
	if sessionID != "" && u.sessions != nil {
		session, err := u.sessions.GetSession(ctx, sessionID)
		switch {
		case err == nil:
			if refreshToken == "" {
				refreshToken = session.RefreshToken
			}
		case !errors.Is(err, redis.ErrNil):
			return err
		}
		if err := u.sessions.DeleteSession(ctx, sessionID); err != nil {
			return err
		}
	}
	if refreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		// already unusable, nothing to revoke
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil
		}
		return err
	}
	return u.revoker.Revoke(ctx, claims.ID, claims.Remaining(timeNow()))
}

// ResolveSession returns the account ID and role bound to a live session
func (u *AuthUsecase) ResolveSession(ctx context.Context, sessionID string) (uuid.UUID, string, error) {
	if u.sessions == nil {
		return uuid.Nil, "", domainerrors.ErrUnauthorized
	}
	session, err := u.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return uuid.Nil, "", domainerrors.ErrUnauthorized
		}
		return uuid.Nil, "", err
	}
	accountID, err := uuid.Parse(session.AccountID)
	if err != nil {
		return uuid.Nil, "", domainerrors.ErrUnauthorized
	}
	return accountID, session.Role, nil
}

// RequestPasswordReset mails a reset link. Unknown emails succeed silently.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, input *entities.PasswordResetRequestInput) error {
	account, err := u.accountRepo.GetByEmail(ctx, entities.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Info(ctx, "Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	record := &entities.AccountToken{
		AccountID: account.ID,
		Token:     token,
		ExpiresAt: timeNow().Add(u.resetTTL),
	}
	if err := u.resetRepo.Create(ctx, record); err != nil {
		return err
	}
	u.notifier.PasswordReset(ctx, account, token)
	return nil
}

// ConfirmPasswordReset sets a new password using a reset token
func (u *AuthUsecase) ConfirmPasswordReset(ctx context.Context, input *entities.PasswordResetConfirmInput) error {
	invalid := domainerrors.Validation("Invalid or expired reset token")

	record, err := u.resetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return invalid
		}
		return err
	}
	if !record.Usable(timeNow()) {
		return invalid
	}
	account, err := u.accountRepo.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return invalid
		}
		return err
	}

	if err := u.passwords.ValidatePassword(input.NewPassword, account.Email, account.FirstName, account.LastName); err != nil {
		return domainerrors.Validation(err.Error())
	}
	passwordHash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.resetRepo.MarkUsed(txCtx, record.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return invalid
			}
			return err
		}
		if err := u.accountRepo.UpdatePassword(txCtx, account.ID, passwordHash); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(account, nil, entities.ActionPasswordChanged, account.Status, account.Role, ""))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Password reset completed", zap.String("account_id", account.ID.String()))
	u.notifier.PasswordChanged(ctx, account)
	return nil
}
