package services

import (
	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/logger"
	"gorm.io/gorm"
)

// ActivityService writes and reads the per-workspace audit trail.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Log appends an activity row outside any transaction. Best-effort: a
// failed insert is logged, never surfaced.
func (s *ActivityService) Log(workspaceID, userID uint, actionType, entityType string, entityID uint, description string) {
	if err := s.LogTx(s.db, workspaceID, userID, actionType, entityType, entityID, description); err != nil {
		logger.Warn().Err(err).
			Str("action", actionType).
			Str("entity", entityType).
			Msg("failed to write activity log")
	}
}

// LogTx appends an activity row using the given handle. Inside a
// transaction the returned error rolls the whole operation back, keeping
// the audit trail consistent with the domain write.
func (s *ActivityService) LogTx(tx *gorm.DB, workspaceID, userID uint, actionType, entityType string, entityID uint, description string) error {
	entry := models.ActivityLog{
		WorkspaceID: workspaceID,
		UserID:      userID,
		ActionType:  actionType,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// ActivityEntry is an activity row joined with the acting user's name.
type ActivityEntry struct {
	models.ActivityLog
	UserName string `json:"user_name"`
}

// List returns the most recent activity rows for a workspace, newest first.
func (s *ActivityService) List(workspaceID uint, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []ActivityEntry
	err := s.db.Model(&models.ActivityLog{}).
		Select("activity_logs.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Where("activity_logs.workspace_id = ?", workspaceID).
		Order("activity_logs.created_at DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
