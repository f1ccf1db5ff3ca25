package handlers

import (
	"strconv"

	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Founder returns the workspace-wide dashboard, founder only
// GET /api/dashboard/founder
func (h *DashboardHandler) Founder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	dash, err := h.dashboardService.Founder(user.WorkspaceID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", dash)
}

// TeamMember returns the caller's personal dashboard
// GET /api/dashboard/team-member
func (h *DashboardHandler) TeamMember(c *gin.Context) {
	user := middleware.CurrentUser(c)
	dash, err := h.dashboardService.TeamMember(user.WorkspaceID, user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", dash)
}

// Activity returns the workspace activity feed
// GET /api/dashboard/activity?limit=
func (h *DashboardHandler) Activity(c *gin.Context) {
	user := middleware.CurrentUser(c)
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	entries, err := h.dashboardService.Activity(user.WorkspaceID, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", entries)
}
