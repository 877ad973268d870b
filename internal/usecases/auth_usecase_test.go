package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/usecases"
	"realestate.backend/pkg/crypto"
	"realestate.backend/pkg/jwt"
	"realestate.backend/pkg/redis"
)

const testJWTSecret = "test-secret"

type authHarness struct {
	*lifecycleHarness
	resets   *MockAccountTokenRepository
	revoker  *MockTokenRevoker
	sessions *MockSessionStore
	jwtSvc   *jwt.JWTService
	auth     *usecases.AuthUsecase
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	h := &authHarness{
		lifecycleHarness: newLifecycleHarness(t),
		resets:           new(MockAccountTokenRepository),
		revoker:          new(MockTokenRevoker),
		sessions:         new(MockSessionStore),
		jwtSvc:           jwt.NewJWTService(testJWTSecret, 15*time.Minute, 24*time.Hour),
	}
	h.auth = usecases.NewAuthUsecase(h.uow, h.accounts, h.resets, h.events, h.uc, h.jwtSvc, h.revoker, h.sessions, h.passwords, h.notifier, time.Hour)
	return h
}

func accountWithPassword(t *testing.T, role entities.Role, status entities.AccountStatus, verified bool, password string) *entities.Account {
	t.Helper()
	a := newTestAccount(role, status, verified)
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	a.PasswordHash = hash
	return a
}

func TestAuthUsecase_Login_InvalidCredentials(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	h.accounts.On("GetByEmail", mock.Anything, "missing@x.com").Return(nil, domainerrors.ErrNotFound).Once()
	_, err := h.auth.Login(ctx, &entities.LoginInput{Email: "Missing@x.com", Password: "whatever1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	agent := accountWithPassword(t, entities.RoleAgent, entities.AccountStatusApproved, true, "correct-pass1")
	h.accounts.On("GetByEmail", mock.Anything, agent.Email).Return(agent, nil).Once()
	_, err = h.auth.Login(ctx, &entities.LoginInput{Email: agent.Email, Password: "wrong-pass1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	h.accounts.On("GetByEmail", mock.Anything, "down@x.com").Return(nil, errors.New("db down")).Once()
	_, err = h.auth.Login(ctx, &entities.LoginInput{Email: "down@x.com", Password: "whatever1"})
	assert.EqualError(t, err, "db down")
}

func TestAuthUsecase_Login_AccessGate(t *testing.T) {
	tests := []struct {
		role       entities.Role
		status     entities.AccountStatus
		verified   bool
		message    string
		onboarding bool
	}{
		{entities.RoleAgent, entities.AccountStatusPendingReview, true, "Your account is awaiting admin approval.", true},
		{entities.RoleBuyer, entities.AccountStatusUnverified, false, "Please verify your email before logging in.", false},
		{entities.RoleSeller, entities.AccountStatusUnverified, false, "Please verify your email before logging in.", false},
		{entities.RoleBuyer, entities.AccountStatusSuspended, true, "Your account has been suspended.", false},
		{entities.RoleSeller, entities.AccountStatusSuspended, true, "Your account has been suspended.", false},
		{entities.RoleDeveloper, entities.AccountStatusVerified, true, "Complete your profile and submit it for review.", true},
		{entities.RoleSeller, entities.AccountStatusRejected, true, "Your account was rejected.", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.status), func(t *testing.T) {
			h := newAuthHarness(t)
			a := accountWithPassword(t, tt.role, tt.status, tt.verified, "correct-pass1")
			h.accounts.On("GetByEmail", mock.Anything, a.Email).Return(a, nil).Once()
			if tt.onboarding {
				h.profiles.On("GetByAccount", mock.Anything, a.ID, tt.role).Return(entities.NewProfile(a.ID, tt.role), nil).Once()
			}

			resp, err := h.auth.Login(context.Background(), &entities.LoginInput{Email: a.Email, Password: "correct-pass1"})
			assert.Nil(t, resp)
			var appErr *domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, 403, appErr.Status)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, string(tt.status), appErr.Details["account_status"])

			if !tt.onboarding {
				assert.NotContains(t, appErr.Details, "onboardingToken")
				h.profiles.AssertNotCalled(t, "GetByAccount", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			token, ok := appErr.Details["onboardingToken"].(string)
			require.True(t, ok)
			claims, err := h.jwtSvc.ValidateAccessToken(token)
			require.NoError(t, err)
			assert.Equal(t, a.ID, claims.UserID)
			assert.True(t, claims.Onboarding())
			assert.Equal(t, jwt.ScopeOnboarding, appErr.Details["scope"])
		})
	}
}

func TestAuthUsecase_CheckOnboardingAccess(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	seller := newTestAccount(entities.RoleSeller, entities.AccountStatusPendingReview, true)
	h.accounts.On("GetByID", mock.Anything, seller.ID).Return(seller, nil).Once()
	got, err := h.uc.CheckOnboardingAccess(ctx, seller.ID)
	require.NoError(t, err)
	assert.Same(t, seller, got)

	approved := newTestAccount(entities.RoleSeller, entities.AccountStatusApproved, true)
	h.accounts.On("GetByID", mock.Anything, approved.ID).Return(approved, nil).Once()
	_, err = h.uc.CheckOnboardingAccess(ctx, approved.ID)
	require.NoError(t, err)

	suspended := newTestAccount(entities.RoleAgent, entities.AccountStatusSuspended, true)
	h.accounts.On("GetByID", mock.Anything, suspended.ID).Return(suspended, nil).Once()
	_, err = h.uc.CheckOnboardingAccess(ctx, suspended.ID)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeAccountAccessDenied))

	gone := uuid.New()
	h.accounts.On("GetByID", mock.Anything, gone).Return(nil, domainerrors.ErrNotFound).Once()
	_, err = h.uc.CheckOnboardingAccess(ctx, gone)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeUnauthorized))
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	h := newAuthHarness(t)
	agent := accountWithPassword(t, entities.RoleAgent, entities.AccountStatusApproved, true, "correct-pass1")
	profile := entities.NewProfile(agent.ID, entities.RoleAgent)
	h.accounts.On("GetByEmail", mock.Anything, agent.Email).Return(agent, nil).Once()
	h.profiles.On("GetByAccount", mock.Anything, agent.ID, entities.RoleAgent).Return(profile, nil).Once()

	resp, err := h.auth.Login(context.Background(), &entities.LoginInput{Email: agent.Email, Password: "correct-pass1"})
	require.NoError(t, err)
	assert.Same(t, agent, resp.Account)
	assert.Same(t, profile, resp.Profile)
	assert.Empty(t, resp.SessionID)

	claims, err := h.jwtSvc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, claims.UserID)
	assert.Equal(t, "agent", claims.Role)
	_, err = h.jwtSvc.ValidateRefreshToken(resp.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthUsecase_Login_CreatesMissingProfile(t *testing.T) {
	h := newAuthHarness(t)
	buyer := accountWithPassword(t, entities.RoleBuyer, entities.AccountStatusApproved, true, "correct-pass1")
	h.accounts.On("GetByEmail", mock.Anything, buyer.Email).Return(buyer, nil).Once()
	h.profiles.On("GetByAccount", mock.Anything, buyer.ID, entities.RoleBuyer).Return(nil, domainerrors.ErrNotFound).Once()
	h.profiles.On("Create", mock.Anything, mock.AnythingOfType("*entities.Profile")).Return(nil).Once()

	resp, err := h.auth.Login(context.Background(), &entities.LoginInput{Email: buyer.Email, Password: "correct-pass1"})
	require.NoError(t, err)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, entities.RoleBuyer, resp.Profile.Role)
}

func TestAuthUsecase_Login_ProfileFailureStillLogsIn(t *testing.T) {
	h := newAuthHarness(t)
	buyer := accountWithPassword(t, entities.RoleBuyer, entities.AccountStatusApproved, true, "correct-pass1")
	h.accounts.On("GetByEmail", mock.Anything, buyer.Email).Return(buyer, nil).Once()
	h.profiles.On("GetByAccount", mock.Anything, buyer.ID, entities.RoleBuyer).Return(nil, errors.New("db down")).Once()

	resp, err := h.auth.Login(context.Background(), &entities.LoginInput{Email: buyer.Email, Password: "correct-pass1"})
	require.NoError(t, err)
	assert.Nil(t, resp.Profile)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthUsecase_Login_Session(t *testing.T) {
	h := newAuthHarness(t)
	buyer := accountWithPassword(t, entities.RoleBuyer, entities.AccountStatusApproved, true, "correct-pass1")
	h.accounts.On("GetByEmail", mock.Anything, buyer.Email).Return(buyer, nil).Twice()
	h.profiles.On("GetByAccount", mock.Anything, buyer.ID, entities.RoleBuyer).Return(entities.NewProfile(buyer.ID, entities.RoleBuyer), nil).Twice()

	var stored *redis.SessionData
	h.sessions.On("CreateSession", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("*redis.SessionData"), 24*time.Hour).
		Return(nil).Run(func(args mock.Arguments) {
		stored = args.Get(2).(*redis.SessionData)
	}).Once()

	resp, err := h.auth.Login(context.Background(), &entities.LoginInput{Email: buyer.Email, Password: "correct-pass1", UseSession: true})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.RefreshToken)
	require.NotNil(t, stored)
	assert.Equal(t, buyer.ID.String(), stored.AccountID)
	assert.Equal(t, "buyer", stored.Role)
	assert.NotEmpty(t, stored.RefreshToken)

	h.sessions.On("CreateSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	_, err = h.auth.Login(context.Background(), &entities.LoginInput{Email: buyer.Email, Password: "correct-pass1", UseSession: true})
	assert.EqualError(t, err, "redis down")
}

func TestAuthUsecase_RefreshToken(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	agent := newTestAccount(entities.RoleAgent, entities.AccountStatusApproved, true)
	pair, err := h.jwtSvc.GenerateTokenPair(agent.ID, agent.Email, string(agent.Role))
	require.NoError(t, err)
	old, err := h.jwtSvc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	h.revoker.On("IsRevoked", mock.Anything, old.ID).Return(false, nil).Once()
	h.accounts.On("GetByID", mock.Anything, agent.ID).Return(agent, nil).Once()
	h.revoker.On("Revoke", mock.Anything, old.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 23*time.Hour && ttl <= 24*time.Hour
	})).Return(nil).Once()

	next, err := h.auth.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := h.jwtSvc.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, claims.ID)
	h.revoker.AssertExpectations(t)

	h.revoker.On("IsRevoked", mock.Anything, old.ID).Return(true, nil).Once()
	_, err = h.auth.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenRevoked)

	_, err = h.auth.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)

	_, err = h.auth.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	h.revoker.On("IsRevoked", mock.Anything, old.ID).Return(false, errors.New("redis down")).Once()
	_, err = h.auth.RefreshToken(ctx, pair.RefreshToken)
	assert.EqualError(t, err, "redis down")
}

func TestAuthUsecase_RefreshToken_SuspendedAccount(t *testing.T) {
	h := newAuthHarness(t)
	buyer := newTestAccount(entities.RoleBuyer, entities.AccountStatusSuspended, true)
	pair, err := h.jwtSvc.GenerateTokenPair(buyer.ID, buyer.Email, string(buyer.Role))
	require.NoError(t, err)

	h.revoker.On("IsRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	h.accounts.On("GetByID", mock.Anything, buyer.ID).Return(buyer, nil).Once()

	_, err = h.auth.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrAccountAccessDenied)
	h.revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token", func(t *testing.T) {
		h := newAuthHarness(t)
		pair, err := h.jwtSvc.GenerateTokenPair(uuid.New(), "a@x.com", "buyer")
		require.NoError(t, err)
		h.revoker.On("Revoke", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil).Once()

		require.NoError(t, h.auth.Logout(ctx, pair.RefreshToken, ""))
		h.revoker.AssertExpectations(t)
	})

	t.Run("session", func(t *testing.T) {
		h := newAuthHarness(t)
		pair, err := h.jwtSvc.GenerateTokenPair(uuid.New(), "a@x.com", "buyer")
		require.NoError(t, err)
		h.sessions.On("GetSession", mock.Anything, "sid").Return(&redis.SessionData{RefreshToken: pair.RefreshToken}, nil).Once()
		h.sessions.On("DeleteSession", mock.Anything, "sid").Return(nil).Once()
		h.revoker.On("Revoke", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil).Once()

		require.NoError(t, h.auth.Logout(ctx, "", "sid"))
		h.sessions.AssertExpectations(t)
		h.revoker.AssertExpectations(t)
	})

	t.Run("unknown session", func(t *testing.T) {
		h := newAuthHarness(t)
		h.sessions.On("GetSession", mock.Anything, "gone").Return(nil, redis.ErrNil).Once()
		h.sessions.On("DeleteSession", mock.Anything, "gone").Return(nil).Once()

		require.NoError(t, h.auth.Logout(ctx, "", "gone"))
		h.revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("session store failure", func(t *testing.T) {
		h := newAuthHarness(t)
		h.sessions.On("GetSession", mock.Anything, "sid").Return(nil, errors.New("redis down")).Once()
		assert.EqualError(t, h.auth.Logout(ctx, "", "sid"), "redis down")
	})

	t.Run("expired refresh token", func(t *testing.T) {
		h := newAuthHarness(t)
		expired := jwt.NewJWTService(testJWTSecret, -time.Minute, -time.Minute)
		pair, err := expired.GenerateTokenPair(uuid.New(), "a@x.com", "buyer")
		require.NoError(t, err)
		require.NoError(t, h.auth.Logout(ctx, pair.RefreshToken, ""))
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		h := newAuthHarness(t)
		assert.ErrorIs(t, h.auth.Logout(ctx, "garbage", ""), jwt.ErrInvalidToken)
	})

	t.Run("nothing to do", func(t *testing.T) {
		h := newAuthHarness(t)
		assert.NoError(t, h.auth.Logout(ctx, "", ""))
	})
}

func TestAuthUsecase_ResolveSession(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	id := uuid.New()

	h.sessions.On("GetSession", mock.Anything, "sid").Return(&redis.SessionData{AccountID: id.String(), Role: "seller"}, nil).Once()
	gotID, role, err := h.auth.ResolveSession(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "seller", role)

	h.sessions.On("GetSession", mock.Anything, "gone").Return(nil, redis.ErrNil).Once()
	_, _, err = h.auth.ResolveSession(ctx, "gone")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	h.sessions.On("GetSession", mock.Anything, "bad").Return(&redis.SessionData{AccountID: "not-a-uuid"}, nil).Once()
	_, _, err = h.auth.ResolveSession(ctx, "bad")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_RequestPasswordReset(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	h.accounts.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domainerrors.ErrNotFound).Once()
	require.NoError(t, h.auth.RequestPasswordReset(ctx, &entities.PasswordResetRequestInput{Email: "ghost@x.com"}))
	h.resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	seller := newTestAccount(entities.RoleSeller, entities.AccountStatusApproved, true)
	h.accounts.On("GetByEmail", mock.Anything, seller.Email).Return(seller, nil).Once()
	h.resets.On("Create", mock.Anything, mock.MatchedBy(func(tok *entities.AccountToken) bool {
		return tok.AccountID == seller.ID && tok.ExpiresAt.Before(time.Now().Add(61*time.Minute))
	})).Return(nil).Once()
	require.NoError(t, h.auth.RequestPasswordReset(ctx, &entities.PasswordResetRequestInput{Email: seller.Email}))
	require.Len(t, h.notifier.resets, 1)
	assert.Len(t, h.notifier.resets[0], 64)

	h.accounts.On("GetByEmail", mock.Anything, seller.Email).Return(seller, nil).Once()
	h.resets.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()
	assert.EqualError(t, h.auth.RequestPasswordReset(ctx, &entities.PasswordResetRequestInput{Email: seller.Email}), "insert failed")
}

func TestAuthUsecase_ConfirmPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		h := newAuthHarness(t)
		h.resets.On("GetByToken", mock.Anything, "nope").Return(nil, domainerrors.ErrNotFound).Once()
		err := h.auth.ConfirmPasswordReset(ctx, &entities.PasswordResetConfirmInput{Token: "nope", NewPassword: "n3w-password"})
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("expired token", func(t *testing.T) {
		h := newAuthHarness(t)
		h.resets.On("GetByToken", mock.Anything, "old").Return(&entities.AccountToken{
			ID: uuid.New(), AccountID: uuid.New(), ExpiresAt: time.Now().Add(-time.Second),
		}, nil).Once()
		err := h.auth.ConfirmPasswordReset(ctx, &entities.PasswordResetConfirmInput{Token: "old", NewPassword: "n3w-password"})
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("weak password", func(t *testing.T) {
		h := newAuthHarness(t)
		a := newTestAccount(entities.RoleBuyer, entities.AccountStatusApproved, true)
		h.resets.On("GetByToken", mock.Anything, "tok").Return(&entities.AccountToken{
			ID: uuid.New(), AccountID: a.ID, ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()
		h.accounts.On("GetByID", mock.Anything, a.ID).Return(a, nil).Once()
		h.passwords.On("ValidatePassword", "12345678", mock.Anything).Return(errors.New("password cannot be entirely numeric")).Once()

		err := h.auth.ConfirmPasswordReset(ctx, &entities.PasswordResetConfirmInput{Token: "tok", NewPassword: "12345678"})
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		h.accounts.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		h := newAuthHarness(t)
		a := newTestAccount(entities.RoleAgent, entities.AccountStatusApproved, true)
		record := &entities.AccountToken{ID: uuid.New(), AccountID: a.ID, ExpiresAt: time.Now().Add(time.Hour)}
		h.resets.On("GetByToken", mock.Anything, "tok").Return(record, nil).Once()
		h.accounts.On("GetByID", mock.Anything, a.ID).Return(a, nil).Once()
		h.passwords.On("ValidatePassword", "n3w-password", mock.Anything).Return(nil).Once()
		h.resets.On("MarkUsed", mock.Anything, record.ID).Return(nil).Once()
		h.accounts.On("UpdatePassword", mock.Anything, a.ID, mock.MatchedBy(func(hash string) bool {
			return crypto.CheckPassword("n3w-password", hash)
		})).Return(nil).Once()
		h.events.On("Create", mock.Anything, mock.MatchedBy(func(e *entities.StatusEvent) bool {
			return e.Action == entities.ActionPasswordChanged && e.FromStatus == e.ToStatus
		})).Return(nil).Once()

		require.NoError(t, h.auth.ConfirmPasswordReset(ctx, &entities.PasswordResetConfirmInput{Token: "tok", NewPassword: "n3w-password"}))
		assert.Equal(t, 1, h.notifier.passwordsSet)
		h.accounts.AssertExpectations(t)
		h.resets.AssertExpectations(t)
	})

	t.Run("token consumed concurrently", func(t *testing.T) {
		h := newAuthHarness(t)
		a := newTestAccount(entities.RoleAgent, entities.AccountStatusApproved, true)
		record := &entities.AccountToken{ID: uuid.New(), AccountID: a.ID, ExpiresAt: time.Now().Add(time.Hour)}
		h.resets.On("GetByToken", mock.Anything, "tok").Return(record, nil).Once()
		h.accounts.On("GetByID", mock.Anything, a.ID).Return(a, nil).Once()
		h.passwords.On("ValidatePassword", "n3w-password", mock.Anything).Return(nil).Once()
		h.resets.On("MarkUsed", mock.Anything, record.ID).Return(domainerrors.ErrNotFound).Once()

		err := h.auth.ConfirmPasswordReset(ctx, &entities.PasswordResetConfirmInput{Token: "tok", NewPassword: "n3w-password"})
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		assert.Zero(t, h.notifier.passwordsSet)
	})
}
