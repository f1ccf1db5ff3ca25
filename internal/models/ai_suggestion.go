package models

import "time"

// AISuggestion is an append-only audit record of AI output. Metadata holds
// the raw parsed-or-fallback payload as JSON.
type AISuggestion struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID    uint      `gorm:"index;not null" json:"workspace_id"`
	UserID         uint      `json:"user_id"`
	SuggestionType string    `gorm:"size:50" json:"suggestion_type"`
	ContextType    string    `gorm:"size:50" json:"context_type"`
	ContextID      uint      `json:"context_id"`
	SuggestionText string    `gorm:"type:text" json:"suggestion_text"`
	Metadata       string    `gorm:"type:text" json:"metadata"`
	IsApplied      bool      `gorm:"default:false" json:"is_applied"`
	CreatedAt      time.Time `json:"created_at"`
}

func (AISuggestion) TableName() string { return "ai_suggestions" }

// BeautifiedStatusMessage records each AI-rewritten task status transition.
type BeautifiedStatusMessage struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	WorkspaceID    uint       `gorm:"index;not null" json:"workspace_id"`
	TaskID         uint       `gorm:"index;not null" json:"task_id"`
	UserID         uint       `json:"user_id"`
	OriginalStatus TaskStatus `gorm:"size:20" json:"original_status"`
	NewStatus      TaskStatus `gorm:"size:20" json:"new_status"`
	Message        string     `gorm:"type:text" json:"message"`
	FromFallback   bool       `gorm:"default:false" json:"from_fallback"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (BeautifiedStatusMessage) TableName() string { return "beautified_status_messages" }
