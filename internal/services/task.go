package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/foundercrm/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db       *gorm.DB
	activity *ActivityService
	queue    BeautifyQueue
}

func NewTaskService(db *gorm.DB, queue BeautifyQueue) *TaskService {
	return &TaskService{db: db, activity: NewActivityService(db), queue: queue}
}

type TaskFilter struct {
	Status     string
	AssignedTo *uint
	Category   string
	Priority   string
}

type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	AssignedTo  *uint               `json:"assignedTo"`
	ContactID   *uint               `json:"contactId"`
	Category    string              `json:"category"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	DueDate     *time.Time          `json:"dueDate"`
}

// TaskView joins the names a task list renders.
type TaskView struct {
	models.Task
	AssignedToName string `json:"assignedToName,omitempty"`
	ContactName    string `json:"contactName,omitempty"`
}

// StatusChange captures what a status transition derived.
type StatusChange struct {
	Changed         bool
	FallbackMessage string
}

// applyStatusTransition mutates the derived columns for a status move:
// completed_at is set only while the task is completed, and
// last_status_update tracks the moment of the latest transition.
func applyStatusTransition(task *models.Task, newStatus models.TaskStatus, now time.Time) StatusChange {
	if task.Status == newStatus {
		return StatusChange{}
	}

	task.Status = newStatus
	task.LastStatusUpdate = &now
	if newStatus == models.StatusCompleted {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	return StatusChange{Changed: true}
}

// fallbackStatusMessage is the deterministic message used until (or in
// place of) an AI-beautified one.
func fallbackStatusMessage(userName, title string, status models.TaskStatus) string {
	return fmt.Sprintf("%s updated %q to %s", userName, title, status)
}

// List returns workspace tasks ordered by due date, then priority.
func (s *TaskService) List(workspaceID uint, filter TaskFilter) ([]TaskView, error) {
	query := s.db.Where("workspace_id = ?", workspaceID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var tasks []models.Task
	if err := query.Order("due_date ASC, priority_rank DESC").Find(&tasks).Error; err != nil {
		return nil, response.NewServerError("failed to list tasks").WithCause(err)
	}
	return s.withNames(tasks)
}

// MyTasks narrows the list to tasks assigned to the caller.
func (s *TaskService) MyTasks(workspaceID, userID uint, filter TaskFilter) ([]TaskView, error) {
	filter.AssignedTo = &userID
	return s.List(workspaceID, filter)
}

func (s *TaskService) Get(workspaceID, taskID uint) (*TaskView, error) {
	task, err := s.findTask(workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	views, err := s.withNames([]models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TaskService) Create(workspaceID, userID uint, input *TaskInput) (*TaskView, error) {
	if input.Title == "" {
		return nil, response.NewValidation("task title is required")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, response.NewValidation("invalid task priority")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, response.NewValidation("invalid task status")
	}
	if input.ContactID != nil {
		if err := s.contactInWorkspace(workspaceID, *input.ContactID); err != nil {
			return nil, err
		}
	}

	category := input.Category
	if category == "" {
		category = "other"
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}

	task := models.Task{
		WorkspaceID:  workspaceID,
		Title:        input.Title,
		Description:  input.Description,
		AssignedTo:   input.AssignedTo,
		ContactID:    input.ContactID,
		Category:     category,
		Priority:     priority,
		PriorityRank: priority.Rank(),
		Status:       status,
		DueDate:      input.DueDate,
		CreatedBy:    userID,
	}
	if status == models.StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "created", "task", task.ID,
			fmt.Sprintf("Created task %s", task.Title))
	})
	if err != nil {
		return nil, response.NewServerError("failed to create task").WithCause(err)
	}

	views, err := s.withNames([]models.Task{task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update rewrites task fields. A status transition derives completed_at
// and last_status_update, writes a deterministic status message right
// away, and queues beautification; a queue failure is logged, never
// surfaced.
func (s *TaskService) Update(workspaceID, userID uint, userName string, taskID uint, input *TaskInput) (*TaskView, error) {
	task, err := s.findTask(workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, response.NewValidation("task title is required")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, response.NewValidation("invalid task priority")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, response.NewValidation("invalid task status")
	}
	if input.ContactID != nil {
		if err := s.contactInWorkspace(workspaceID, *input.ContactID); err != nil {
			return nil, err
		}
	}

	oldStatus := task.Status

	task.Title = input.Title
	task.Description = input.Description
	task.AssignedTo = input.AssignedTo
	task.ContactID = input.ContactID
	task.DueDate = input.DueDate
	if input.Category != "" {
		task.Category = input.Category
	}
	if input.Priority != "" {
		task.Priority = input.Priority
		task.PriorityRank = input.Priority.Rank()
	}

	var change StatusChange
	if input.Status != "" {
		change = applyStatusTransition(task, input.Status, time.Now())
		if change.Changed {
			task.BeautifiedStatusMessage = fallbackStatusMessage(userName, task.Title, task.Status)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		action := "updated"
		description := fmt.Sprintf("Updated task %s", task.Title)
		if change.Changed {
			description = fmt.Sprintf("Moved task %s to %s", task.Title, task.Status)
		}
		return s.activity.LogTx(tx, workspaceID, userID, action, "task", task.ID, description)
	})
	if err != nil {
		return nil, response.NewServerError("failed to update task").WithCause(err)
	}

	if change.Changed && s.queue != nil {
		job := &BeautifyJob{
			TaskID:    task.ID,
			UserID:    userID,
			UserName:  userName,
			Title:     task.Title,
			OldStatus: string(oldStatus),
			NewStatus: string(task.Status),
		}
		if err := s.queue.Enqueue(job); err != nil {
			logger.Warn().Err(err).Uint("task_id", task.ID).
				Msg("failed to enqueue status beautification")
		}
	}

	views, err := s.withNames([]models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TaskService) Delete(workspaceID, userID, taskID uint) error {
	task, err := s.findTask(workspaceID, taskID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(task).Error; err != nil {
			return err
		}
		return s.activity.LogTx(tx, workspaceID, userID, "deleted", "task", taskID,
			fmt.Sprintf("Deleted task %s", task.Title))
	})
	if err != nil {
		return response.NewServerError("failed to delete task").WithCause(err)
	}
	return nil
}

func (s *TaskService) findTask(workspaceID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Where("id = ? AND workspace_id = ?", taskID, workspaceID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, response.NewServerError("failed to load task").WithCause(err)
	}
	return &task, nil
}

func (s *TaskService) contactInWorkspace(workspaceID, contactID uint) error {
	var count int64
	err := s.db.Model(&models.Contact{}).
		Where("id = ? AND workspace_id = ?", contactID, workspaceID).
		Count(&count).Error
	if err != nil {
		return response.NewServerError("failed to verify contact").WithCause(err)
	}
	if count == 0 {
		return response.NewNotFound("contact not found")
	}
	return nil
}

func (s *TaskService) withNames(tasks []models.Task) ([]TaskView, error) {
	views := make([]TaskView, 0, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}

	userIDs := make([]uint, 0)
	contactIDs := make([]uint, 0)
	for _, t := range tasks {
		if t.AssignedTo != nil {
			userIDs = append(userIDs, *t.AssignedTo)
		}
		if t.ContactID != nil {
			contactIDs = append(contactIDs, *t.ContactID)
		}
	}

	userNames := make(map[uint]string)
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.db.Select("id", "name").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, response.NewServerError("failed to list tasks").WithCause(err)
		}
		for _, u := range users {
			userNames[u.ID] = u.Name
		}
	}

	contactNames := make(map[uint]string)
	if len(contactIDs) > 0 {
		var contacts []models.Contact
		if err := s.db.Select("id", "name").Where("id IN ?", contactIDs).Find(&contacts).Error; err != nil {
			return nil, response.NewServerError("failed to list tasks").WithCause(err)
		}
		for _, c := range contacts {
			contactNames[c.ID] = c.Name
		}
	}

	for _, t := range tasks {
		view := TaskView{Task: t}
		if t.AssignedTo != nil {
			view.AssignedToName = userNames[*t.AssignedTo]
		}
		if t.ContactID != nil {
			view.ContactName = contactNames[*t.ContactID]
		}
		views = append(views, view)
	}
	return views, nil
}
