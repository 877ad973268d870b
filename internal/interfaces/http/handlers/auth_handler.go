package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/interfaces/http/middleware"
	"realestate.backend/internal/interfaces/http/response"
	"realestate.backend/pkg/jwt"
	"realestate.backend/pkg/logger"
)

const refreshTokenCookie = "refresh_token"

type authService interface {
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	Logout(ctx context.Context, refreshToken, sessionID string) error
	RequestPasswordReset(ctx context.Context, input *entities.PasswordResetRequestInput) error
	ConfirmPasswordReset(ctx context.Context, input *entities.PasswordResetConfirmInput) error
}

type registrationService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.RegistrationResult, error)
	VerifyEmail(ctx context.Context, token string) (*entities.Account, error)
	ResendVerification(ctx context.Context, email string) error
}

// CookieConfig controls the token cookies written for browser clients
type CookieConfig struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase  authService
	registration registrationService
	cookies      CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase authService, registration registrationService, cookies CookieConfig) *AuthHandler {
	if cookies.AccessMaxAge <= 0 {
		cookies.AccessMaxAge = 24 * time.Hour
	}
	if cookies.RefreshMaxAge <= 0 {
		cookies.RefreshMaxAge = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		authUsecase:  authUsecase,
		registration: registration,
		cookies:      cookies,
	}
}

// Register handles account registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.registration.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":  "Registration successful. Please check your email for verification.",
		"user":     result.Account,
		"workflow": result.Workflow,
	})
}

// Login handles account login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	authResponse, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if authResponse.SessionID == "" {
		h.setTokenCookies(c, authResponse.AccessToken, authResponse.RefreshToken)
	}

	body := gin.H{
		"accessToken":    authResponse.AccessToken,
		"user":           authResponse.Account,
		"user_type":      authResponse.Account.Role,
		"account_status": authResponse.Account.Status,
		"profile":        authResponse.Profile,
	}
	if authResponse.RefreshToken != "" {
		body["refreshToken"] = authResponse.RefreshToken
	}
	if authResponse.SessionID != "" {
		body["sessionId"] = authResponse.SessionID
	}
	response.Success(c, http.StatusOK, body)
}

// VerifyEmail handles email verification
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	account, err := h.registration.VerifyEmail(c.Request.Context(), input.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":             "Email verified successfully",
		"user":                account,
		"can_access_platform": account.CanAccessPlatform(),
	})
}

// ResendVerification sends a fresh verification email. Unknown addresses get the same answer.
// POST /api/v1/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err := h.registration.ResendVerification(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If the account exists and is unverified, a verification email has been sent.",
	})
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken := h.refreshTokenFromRequest(c)
	if refreshToken == "" {
		response.Error(c, domainerrors.Validation("Refresh token is required"))
		return
	}

	tokenPair, err := h.authUsecase.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		if domainerrors.HasCode(err, domainerrors.CodeAccountAccessDenied) {
			response.Error(c, err)
			return
		}
		logger.Info(c.Request.Context(), "Refresh token rejected", zap.Error(err))
		response.Error(c, domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeUnauthorized, "Invalid or expired refresh token", err))
		return
	}

	h.setTokenCookies(c, tokenPair.AccessToken, tokenPair.RefreshToken)

	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  tokenPair.AccessToken,
		"refreshToken": tokenPair.RefreshToken,
	})
}

// Logout revokes the refresh token and drops the session, if any
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken := h.refreshTokenFromRequest(c)
	sessionID := c.GetHeader(middleware.SessionHeader)

	if err := h.authUsecase.Logout(c.Request.Context(), refreshToken, sessionID); err != nil {
		response.Error(c, err)
		return
	}

	h.clearTokenCookies(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RequestPasswordReset mails a reset link. The answer never reveals whether the email exists.
// POST /api/v1/auth/password-reset/request
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var input entities.PasswordResetRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err := h.authUsecase.RequestPasswordReset(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If an account exists for that email, a password reset link has been sent.",
	})
}

// ConfirmPasswordReset sets a new password from a reset token
// POST /api/v1/auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var input entities.PasswordResetConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	if err := h.authUsecase.ConfirmPasswordReset(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset. Please log in."})
}

// refreshTokenFromRequest reads the JSON body first and falls back to the cookie
func (h *AuthHandler) refreshTokenFromRequest(c *gin.Context) string {
	var refreshToken string
	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			refreshToken = cookie
		}
	}
	return refreshToken
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, int(h.cookies.AccessMaxAge.Seconds()), "/", "", h.cookies.Secure, true)
	if refreshToken != "" {
		c.SetCookie(refreshTokenCookie, refreshToken, int(h.cookies.RefreshMaxAge.Seconds()), "/", "", h.cookies.Secure, true)
	}
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
}
