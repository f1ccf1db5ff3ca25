package models

import "time"

// ActivityLog is an append-only audit trail row. Written alongside mutating
// operations, never updated or deleted by application code; old rows are
// pruned by the retention scheduler.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID uint      `gorm:"index;not null" json:"workspace_id"`
	UserID      uint      `json:"user_id"`
	ActionType  string    `gorm:"size:50" json:"action_type"`
	EntityType  string    `gorm:"size:50" json:"entity_type"`
	EntityID    uint      `json:"entity_id"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
