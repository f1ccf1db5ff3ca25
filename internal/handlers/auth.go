package handlers

import (
	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a founder and their workspace
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.Register(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "registration successful", result)
}

// RegisterTeamMember joins a workspace by code
// POST /api/auth/register-team-member
func (h *AuthHandler) RegisterTeamMember(c *gin.Context) {
	var req services.RegisterTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.RegisterTeamMember(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "registration successful", result)
}

// Login authenticates a user
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "login successful", result)
}

// Invite creates an invitation link, founder only
// POST /api/auth/invite
func (h *AuthHandler) Invite(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var req services.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.InviteTeamMember(user.ID, user.WorkspaceID, user.Role, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "invitation created", result)
}

// AcceptInvitation consumes an invitation token
// POST /api/auth/accept-invitation
func (h *AuthHandler) AcceptInvitation(c *gin.Context) {
	var req services.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.authService.AcceptInvitation(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "invitation accepted", result)
}

// Me returns the authenticated user and workspace
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	result, err := h.authService.GetMe(user.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", result)
}
