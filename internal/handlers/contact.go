package handlers

import (
	"strconv"

	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List returns workspace contacts
// GET /api/contacts?type=&search=
func (h *ContactHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	filter := services.ContactFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}

	contacts, err := h.contactService.List(user.WorkspaceID, filter)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", contacts)
}

// Get returns one contact with its related records
// GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.contactService.Get(user.WorkspaceID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", detail)
}

// Create inserts a contact
// POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var input services.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	contact, err := h.contactService.Create(user.WorkspaceID, user.ID, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "contact created", contact)
}

// Update rewrites a contact and its tags
// PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	contact, err := h.contactService.Update(user.WorkspaceID, user.ID, id, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "contact updated", contact)
}

// Delete removes a contact
// DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(user.WorkspaceID, user.ID, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "contact deleted", nil)
}

// AddInteraction logs a touchpoint against a contact
// POST /api/contacts/:id/interactions
func (h *ContactHandler) AddInteraction(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.InteractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	interaction, err := h.contactService.AddInteraction(user.WorkspaceID, user.ID, id, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "interaction logged", interaction)
}

// ListInteractions returns a contact's interactions
// GET /api/contacts/:id/interactions
func (h *ContactHandler) ListInteractions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	interactions, err := h.contactService.ListInteractions(user.WorkspaceID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", interactions)
}

// paramID parses a numeric route parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
