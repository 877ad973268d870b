package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/interfaces/http/middleware"
	"realestate.backend/internal/interfaces/http/response"
)

type profileService interface {
	GetMyProfile(ctx context.Context, accountID uuid.UUID) (*entities.ProfileResult, error)
	UpdateMyProfile(ctx context.Context, accountID uuid.UUID, input *entities.UpdateProfileInput) (*entities.ProfileResult, error)
}

type accountStatusService interface {
	AccountStatus(ctx context.Context, accountID uuid.UUID) (*entities.AccountStatusView, error)
	SubmitForReview(ctx context.Context, accountID uuid.UUID) (*entities.Account, error)
}

// ProfileHandler serves the caller's own account status and role profile.
// These routes are authenticated but not gated so unapproved accounts can finish onboarding.
type ProfileHandler struct {
	profiles  profileService
	lifecycle accountStatusService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles profileService, lifecycle accountStatusService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, lifecycle: lifecycle}
}

// AccountStatus reports where the caller stands in its approval workflow
// GET /api/v1/account-status
func (h *ProfileHandler) AccountStatus(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	view, err := h.lifecycle.AccountStatus(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	a := view.Account
	response.Success(c, http.StatusOK, gin.H{
		"account_status":      a.Status,
		"user_type":           a.Role,
		"is_email_verified":   a.IsEmailVerified,
		"can_access_platform": view.CanAccessPlatform,
		"requires_approval":   view.RequiresApproval,
		"approved_at":         a.ApprovedAt,
		"rejection_reason":    a.RejectionReason,
		"workflow":            view.Workflow,
		"permissions":         view.Permissions,
		"profile_completion":  view.ProfileCompletion,
		"documents_uploaded":  view.DocumentsUploaded,
	})
}

// GetProfile returns the caller's account and role profile
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	result, err := h.profiles.GetMyProfile(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// UpdateProfile applies a partial update and may submit the profile for review
// PATCH /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.profiles.UpdateMyProfile(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// SubmitForReview puts a complete profile into the admin review queue
// POST /api/v1/profile/submit-review
func (h *ProfileHandler) SubmitForReview(c *gin.Context) {
	accountID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	account, err := h.lifecycle.SubmitForReview(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":        "Profile submitted for review",
		"account_status": account.Status,
		"user":           account,
	})
}
