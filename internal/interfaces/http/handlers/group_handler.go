package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"realestate.backend/internal/interfaces/http/response"
)

// GroupHandler exposes the role groups to signed-in accounts
type GroupHandler struct {
	groups groupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groups groupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// ListGroups returns every role group with its permissions
// GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"groups": groups})
}
