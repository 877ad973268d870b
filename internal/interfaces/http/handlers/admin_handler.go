package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/interfaces/http/middleware"
	"realestate.backend/internal/interfaces/http/response"
	"realestate.backend/pkg/utils"
)

type adminLifecycleService interface {
	Decide(ctx context.Context, adminID uuid.UUID, input *entities.DecisionInput) (*entities.Account, error)
	ChangeRole(ctx context.Context, adminID uuid.UUID, input *entities.ChangeRoleInput) (*entities.Account, error)
	ListAccounts(ctx context.Context, filter entities.AccountFilter, pagination utils.PaginationParams) ([]*entities.Account, int64, error)
	History(ctx context.Context, accountID uuid.UUID) ([]*entities.StatusEvent, error)
}

type groupService interface {
	ListGroups(ctx context.Context) ([]*entities.Group, error)
	GroupStats(ctx context.Context) ([]*entities.GroupStats, error)
	ListMembers(ctx context.Context, role entities.Role, pagination utils.PaginationParams) ([]*entities.Account, int64, error)
}

// AdminHandler handles admin endpoints
type AdminHandler struct {
	lifecycle adminLifecycleService
	groups    groupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(lifecycle adminLifecycleService, groups groupService) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, groups: groups}
}

// Approve records an approve, reject or suspend decision
// POST /api/v1/admin/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.DecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	account, err := h.lifecycle.Decide(c.Request.Context(), adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "User " + string(input.Action) + " decision recorded",
		"user":    account,
	})
}

// ChangeUserType moves an account to another role
// POST /api/v1/admin/change-user-type
func (h *AdminHandler) ChangeUserType(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.ChangeRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindError(err))
		return
	}

	account, err := h.lifecycle.ChangeRole(c.Request.Context(), adminID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":        "User type changed to " + string(account.Role),
		"user":           account,
		"account_status": account.Status,
	})
}

// ListUsers lists accounts filtered by status, role and search text
// GET /api/v1/admin/users?status=&user_type=&search=&page=&limit=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := entities.AccountFilter{
		Search: c.Query("search"),
		Status: entities.AccountStatus(c.Query("status")),
		Role:   entities.Role(c.Query("user_type")),
	}
	pagination := paginationFromQuery(c)

	accounts, total, err := h.lifecycle.ListAccounts(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users": accounts,
		"meta":  utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// UserHistory returns the lifecycle audit trail of one account
// GET /api/v1/admin/users/:id/history
func (h *AdminHandler) UserHistory(c *gin.Context) {
	accountID, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.Error(c, domainerrors.Validation("Invalid user ID"))
		return
	}

	events, err := h.lifecycle.History(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": events})
}

// GroupStats returns member and permission counts per group
// GET /api/v1/admin/groups/stats
func (h *AdminHandler) GroupStats(c *gin.Context) {
	stats, err := h.groups.GroupStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"groups": stats})
}

// GroupMembers lists the accounts in one role group
// GET /api/v1/admin/groups/:role/members
func (h *AdminHandler) GroupMembers(c *gin.Context) {
	pagination := paginationFromQuery(c)
	members, total, err := h.groups.ListMembers(c.Request.Context(), entities.Role(c.Param("role")), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users": members,
		"meta":  utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return utils.GetPaginationParams(page, limit)
}
