package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/internal/interfaces/http/response"
	"realestate.backend/pkg/jwt"
	"realestate.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionHeader carries a server-side session id instead of a bearer token
	SessionHeader = "X-Session-Id"
	// AccessTokenCookie is set by the login handler for browser clients
	AccessTokenCookie = "token"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// TokenScopeKey holds the scope claim of the bearer token, empty for full access
	TokenScopeKey = "tokenScope"
	// AccountKey holds the freshly loaded account after RequirePlatformAccess
	AccountKey = "account"
)

// SessionResolver maps a session id to the account it belongs to
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (uuid.UUID, string, error)
}

// AccessChecker re-evaluates whether an account may use the platform
type AccessChecker interface {
	CheckPlatformAccess(ctx context.Context, accountID uuid.UUID) (*entities.Account, error)
}

// AuthMiddleware authenticates the request by session id, bearer token or token cookie.
// sessions may be nil when session mode is disabled.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sessionID := c.GetHeader(SessionHeader); sessionID != "" && sessions != nil {
			accountID, role, err := sessions.ResolveSession(ctx, sessionID)
			if err != nil {
				logger.Warn(ctx, "Session authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid or expired session",
				})
				return
			}
			setIdentity(c, accountID, "", role)
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			logger.Warn(ctx, "Token authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		setIdentity(c, claims.UserID, claims.Email, claims.Role)
		c.Set(TokenScopeKey, claims.Scope)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
			return cookie, true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authorization header is required",
		})
		return "", false
	}

	if !strings.HasPrefix(authHeader, BearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid authorization format. Use: Bearer <token>",
		})
		return "", false
	}
	return strings.TrimPrefix(authHeader, BearerPrefix), true
}

func setIdentity(c *gin.Context, accountID uuid.UUID, email, role string) {
	c.Set(UserIDKey, accountID)
	c.Set(UserEmailKey, email)
	c.Set(UserRoleKey, role)

	ctx := context.WithValue(c.Request.Context(), logger.AccountIDKey, accountID.String())
	c.Request = c.Request.WithContext(ctx)
}

// OnboardingChecker re-evaluates an account holding an onboarding token
type OnboardingChecker interface {
	CheckOnboardingAccess(ctx context.Context, accountID uuid.UUID) (*entities.Account, error)
}

// OnboardingAccess reloads the account behind an onboarding-scoped token and refuses it once it
// is neither onboarding nor allowed on the platform. Full tokens pass through.
func OnboardingAccess(checker OnboardingChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsOnboardingScope(c) {
			c.Next()
			return
		}
		accountID, ok := GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		account, err := checker.CheckOnboardingAccess(c.Request.Context(), accountID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(AccountKey, account)
		c.Set(UserRoleKey, string(account.Role))
		c.Next()
	}
}

// IsOnboardingScope reports whether the request authenticated with an onboarding token
func IsOnboardingScope(c *gin.Context) bool {
	scope, _ := c.Get(TokenScopeKey)
	s, _ := scope.(string)
	return s == jwt.ScopeOnboarding
}

// RequirePlatformAccess reloads the account and refuses it when its status no longer allows access.
// Tokens outlive status changes, so this runs on every protected request.
func RequirePlatformAccess(checker AccessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}
		if IsOnboardingScope(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":  "ACCOUNT_ACCESS_DENIED",
				"error": "This token only grants access to your account status and profile. Sign in again once approved.",
			})
			return
		}

		account, err := checker.CheckPlatformAccess(c.Request.Context(), accountID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(AccountKey, account)
		// role claims may be stale after an admin role change
		c.Set(UserRoleKey, string(account.Role))
		c.Next()
	}
}

// FeatureChecker answers whether an account holds a group permission
type FeatureChecker interface {
	CanAccessFeature(ctx context.Context, accountID uuid.UUID, codename string) (bool, error)
}

// RequirePermission refuses accounts whose group lacks codename
func RequirePermission(checker FeatureChecker, codename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		allowed, err := checker.CanAccessFeature(c.Request.Context(), accountID, codename)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":       "PERMISSION_DENIED",
				"error":      "Permission denied",
				"permission": codename,
			})
			return
		}
		c.Next()
	}
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// GetAccount returns the account loaded by RequirePlatformAccess
func GetAccount(c *gin.Context) (*entities.Account, bool) {
	v, exists := c.Get(AccountKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*entities.Account)
	return account, ok
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User role not found",
			})
			return
		}

		for _, role := range roles {
			if userRole == string(role) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":  "PERMISSION_DENIED",
			"error": "Insufficient permissions",
		})
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.RoleAdmin)
}
