package handlers

import (
	"strconv"

	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService   *services.AIService
	taskService *services.TaskService
}

func NewAIHandler(aiService *services.AIService, taskService *services.TaskService) *AIHandler {
	return &AIHandler{aiService: aiService, taskService: taskService}
}

// AnalyzeNote runs AI analysis on a contact note
// POST /api/ai/analyze-note
func (h *AIHandler) AnalyzeNote(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var body struct {
		ContactID uint   `json:"contactId"`
		Note      string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	analysis, err := h.aiService.AnalyzeContactNote(c.Request.Context(),
		user.WorkspaceID, user.ID, body.ContactID, body.Note)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "note analyzed", analysis)
}

// PrioritizeTasks orders the caller's open tasks
// POST /api/ai/prioritize-tasks
func (h *AIHandler) PrioritizeTasks(c *gin.Context) {
	user := middleware.CurrentUser(c)
	result, err := h.aiService.PrioritizeTasks(c.Request.Context(),
		user.WorkspaceID, user.ID, h.taskService)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "tasks prioritized", result)
}

// GenerateEmail drafts a follow-up email for a contact
// POST /api/ai/generate-email
func (h *AIHandler) GenerateEmail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var body struct {
		ContactID uint   `json:"contactId"`
		Context   string `json:"context"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	draft, err := h.aiService.GenerateFollowUpEmail(c.Request.Context(),
		user.WorkspaceID, body.ContactID, body.Context)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "email drafted", draft)
}

// CategorizeContact suggests a type and tags for contact fields
// POST /api/ai/categorize-contact
func (h *AIHandler) CategorizeContact(c *gin.Context) {
	var input services.CategorizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.aiService.CategorizeContact(c.Request.Context(), &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "contact categorized", result)
}

// SummarizeNotes condenses long notes
// POST /api/ai/summarize-notes
func (h *AIHandler) SummarizeNotes(c *gin.Context) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	summary, err := h.aiService.SummarizeNotes(c.Request.Context(), body.Notes)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", gin.H{"summary": summary})
}

// PredictDeal estimates conversion likelihood for a deal
// GET /api/ai/predict-deal/:dealId
func (h *AIHandler) PredictDeal(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "dealId")
	if !ok {
		return
	}

	prediction, err := h.aiService.PredictDealConversion(c.Request.Context(), user.WorkspaceID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", prediction)
}

// ListSuggestions returns the workspace's AI audit trail
// GET /api/ai/suggestions?is_applied=&limit=
func (h *AIHandler) ListSuggestions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	filter := services.SuggestionFilter{}
	if raw := c.Query("is_applied"); raw != "" {
		applied := raw == "true" || raw == "1"
		filter.IsApplied = &applied
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}

	suggestions, err := h.aiService.ListSuggestions(user.WorkspaceID, filter)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", suggestions)
}

// MarkSuggestionApplied flips a suggestion's applied flag
// PATCH /api/ai/suggestions/:id/applied
func (h *AIHandler) MarkSuggestionApplied(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	suggestion, err := h.aiService.MarkSuggestionApplied(user.WorkspaceID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "suggestion marked applied", suggestion)
}
