package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/pkg/jwt"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)

	body := gin.H{}
	for k, v := range appErr.Details {
		body[k] = v
	}
	body["code"] = appErr.Code
	body["message"] = appErr.Message
	body["error"] = appErr.Message // Backward compatibility

	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
		"error":   message,
	})
}

// toAppError maps bare sentinels returned by the usecases onto their HTTP shape.
func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.InvalidCredentials("Invalid email or password")
	case errors.Is(err, domainerrors.ErrTokenRevoked),
		errors.Is(err, domainerrors.ErrTokenExpired),
		errors.Is(err, jwt.ErrExpiredToken):
		return domainerrors.Unauthorized("Token has expired or been revoked")
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrWrongTokenType):
		return domainerrors.Unauthorized("Invalid token")
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return domainerrors.Unauthorized("Authentication required")
	case errors.Is(err, domainerrors.ErrDuplicateEmail):
		return domainerrors.DuplicateEmail("A user with this email already exists")
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.Conflict("Resource already exists")
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("Resource not found")
	case errors.Is(err, domainerrors.ErrPermissionDenied), errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.PermissionDenied("You do not have permission to perform this action")
	case errors.Is(err, domainerrors.ErrValidation), errors.Is(err, domainerrors.ErrInvalidInput):
		return domainerrors.Validation(err.Error())
	}
	return domainerrors.InternalError(err)
}

// StatusFor returns the HTTP status Error would write for err.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return toAppError(err).Status
}
