package handlers

import (
	"strconv"

	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func taskFilterFromQuery(c *gin.Context) services.TaskFilter {
	filter := services.TaskFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	if raw := c.Query("assigned_to"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			assigned := uint(id)
			filter.AssignedTo = &assigned
		}
	}
	return filter
}

// List returns workspace tasks
// GET /api/tasks?status=&assigned_to=&category=&priority=
func (h *TaskHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tasks, err := h.taskService.List(user.WorkspaceID, taskFilterFromQuery(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", tasks)
}

// MyTasks returns tasks assigned to the caller
// GET /api/tasks/my-tasks?status=
func (h *TaskHandler) MyTasks(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tasks, err := h.taskService.MyTasks(user.WorkspaceID, user.ID, taskFilterFromQuery(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", tasks)
}

// Get returns one task
// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(user.WorkspaceID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", task)
}

// Create inserts a task
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.taskService.Create(user.WorkspaceID, user.ID, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "task created", task)
}

// Update rewrites a task; status changes trigger beautification
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.taskService.Update(user.WorkspaceID, user.ID, user.Name, id, &input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "task updated", task)
}

// Delete removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(user.WorkspaceID, user.ID, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "task deleted", nil)
}
