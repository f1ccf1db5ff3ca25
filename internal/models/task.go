package models

import "time"

// TaskPriority is an orderable priority enum: low < medium < high < urgent.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the position of p in the priority total order. Unknown
// values rank below low.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// TaskStatus is the lifecycle state of a task. Transitions are
// unconstrained; timestamps are derived from the written value.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Task carries a persisted PriorityRank tiebreaker so list ordering does not
// depend on how the driver collates enum text.
type Task struct {
	ID                      uint         `gorm:"primaryKey" json:"id"`
	WorkspaceID             uint         `gorm:"index;not null" json:"workspace_id"`
	Title                   string       `gorm:"size:255;not null" json:"title"`
	Description             string       `gorm:"type:text" json:"description"`
	AssignedTo              *uint        `gorm:"index" json:"assigned_to"`
	CreatedBy               uint         `json:"created_by"`
	ContactID               *uint        `gorm:"index" json:"contact_id"`
	Category                string       `gorm:"size:50;default:other" json:"category"`
	Priority                TaskPriority `gorm:"size:20;default:medium" json:"priority"`
	PriorityRank            int          `gorm:"default:2" json:"-"`
	Status                  TaskStatus   `gorm:"size:20;default:todo" json:"status"`
	DueDate                 *time.Time   `json:"due_date"`
	CompletedAt             *time.Time   `json:"completed_at"`
	BeautifiedStatusMessage string       `gorm:"type:text" json:"beautified_status_message"`
	LastStatusUpdate        *time.Time   `json:"last_status_update"`
	CreatedAt               time.Time    `json:"created_at"`
	UpdatedAt               time.Time    `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
