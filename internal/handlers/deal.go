package handlers

import (
	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type DealHandler struct {
	dealService *services.DealService
}

func NewDealHandler(dealService *services.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// List returns workspace deals
// GET /api/deals?stage=
func (h *DealHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	deals, err := h.dealService.List(user.WorkspaceID, c.Query("stage"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", deals)
}

// Pipeline returns deals bucketed by stage
// GET /api/deals/pipeline
func (h *DealHandler) Pipeline(c *gin.Context) {
	user := middleware.CurrentUser(c)
	buckets, err := h.dealService.Pipeline(user.WorkspaceID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", buckets)
}

// Get returns one deal
// GET /api/deals/:id
func (h *DealHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.Get(user.WorkspaceID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", deal)
}

// Create inserts a deal
// POST /api/deals
func (h *DealHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var input services.DealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	deal, err := h.dealService.Create(user.WorkspaceID, user.ID, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "deal created", deal)
}

// Update rewrites a deal
// PUT /api/deals/:id
func (h *DealHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.DealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	deal, err := h.dealService.Update(user.WorkspaceID, user.ID, id, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "deal updated", deal)
}

// UpdateStage moves a deal between pipeline stages
// PATCH /api/deals/:id/stage
func (h *DealHandler) UpdateStage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Stage models.DealStage `json:"stage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	deal, err := h.dealService.UpdateStage(user.WorkspaceID, user.ID, id, body.Stage)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "deal stage updated", deal)
}

// Delete removes a deal
// DELETE /api/deals/:id
func (h *DealHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.dealService.Delete(user.WorkspaceID, user.ID, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "deal deleted", nil)
}
