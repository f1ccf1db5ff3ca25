package services

import (
	"time"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// activityRetentionDays bounds how long audit rows are kept.
const activityRetentionDays = 180

// StartMaintenanceScheduler runs the nightly cleanup jobs: activity-log
// retention and removal of expired, never-accepted invitations. Returns the
// cron so the caller can Stop it on shutdown.
func StartMaintenanceScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()

	// 03:10 daily
	_, err := c.AddFunc("10 3 * * *", func() {
		pruneActivityLogs(db)
		pruneExpiredInvitations(db)
	})
	if err != nil {
		logger.Errorf("[Scheduler] failed to register maintenance job: %v", err)
		return c
	}

	c.Start()
	logger.Infof("[Scheduler] maintenance jobs scheduled")
	return c
}

func pruneActivityLogs(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, -activityRetentionDays)
	result := db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		logger.Errorf("[Scheduler] activity log cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Infof("[Scheduler] pruned %d activity log rows", result.RowsAffected)
	}
}

func pruneExpiredInvitations(db *gorm.DB) {
	result := db.Where("accepted = ? AND expires_at < ?", false, time.Now()).
		Delete(&models.Invitation{})
	if result.Error != nil {
		logger.Errorf("[Scheduler] invitation cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logger.Infof("[Scheduler] removed %d expired invitations", result.RowsAffected)
	}
}
