package services

import (
	"time"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/pkg/response"
	"gorm.io/gorm"
)

type DashboardService struct {
	db       *gorm.DB
	tasks    *TaskService
	deals    *DealService
	activity *ActivityService
}

func NewDashboardService(db *gorm.DB, tasks *TaskService, deals *DealService) *DashboardService {
	return &DashboardService{
		db:       db,
		tasks:    tasks,
		deals:    deals,
		activity: NewActivityService(db),
	}
}

// FounderDashboard aggregates the whole workspace.
type FounderDashboard struct {
	TodayTasks         []TaskView          `json:"todayTasks"`
	UpcomingTasks      []TaskView          `json:"upcomingTasks"`
	OverdueTasks       []TaskView          `json:"overdueTasks"`
	RecentInteractions []RecentInteraction `json:"recentInteractions"`
	PipelineStats      []StageStat         `json:"pipelineStats"`
	TeamActivity       []TeamMemberStat    `json:"teamActivity"`
	ContactsSummary    []TypeCount         `json:"contactsSummary"`
	TaskStats          []StatusCount       `json:"taskStats"`
	ActivityLogs       []ActivityEntry     `json:"activityLogs"`
}

// TeamMemberDashboard narrows the founder view to the caller's own rows.
// The activity feed stays team-wide.
type TeamMemberDashboard struct {
	TodayTasks         []TaskView          `json:"todayTasks"`
	UpcomingTasks      []TaskView          `json:"upcomingTasks"`
	OverdueTasks       []TaskView          `json:"overdueTasks"`
	RecentInteractions []RecentInteraction `json:"recentInteractions"`
	MyDeals            []DealView          `json:"myDeals"`
	TaskStats          []StatusCount       `json:"taskStats"`
	ActivityLogs       []ActivityEntry     `json:"activityLogs"`
}

type RecentInteraction struct {
	models.Interaction
	ContactName string `json:"contactName"`
	UserName    string `json:"userName"`
}

type StageStat struct {
	Stage      string  `json:"stage"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type TeamMemberStat struct {
	UserName       string `json:"userName"`
	TasksCount     int64  `json:"tasksCount"`
	CompletedTasks int64  `json:"completedTasks"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Founder builds the workspace-wide dashboard. Day boundaries use the
// server's local midnight.
func (s *DashboardService) Founder(workspaceID uint) (*FounderDashboard, error) {
	today := startOfDay(time.Now())
	nextWeek := today.AddDate(0, 0, 7)
	lastWeek := today.AddDate(0, 0, -7)

	dash := &FounderDashboard{}
	var err error

	if dash.TodayTasks, err = s.taskWindow(workspaceID, nil,
		"due_date >= ? AND due_date < ?", today, today.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if dash.UpcomingTasks, err = s.taskWindow(workspaceID, nil,
		"due_date >= ? AND due_date <= ? AND status != ?", today.AddDate(0, 0, 1), nextWeek, models.StatusCompleted); err != nil {
		return nil, err
	}
	if dash.OverdueTasks, err = s.taskWindow(workspaceID, nil,
		"due_date < ? AND status != ?", today, models.StatusCompleted); err != nil {
		return nil, err
	}
	if dash.RecentInteractions, err = s.recentInteractions(workspaceID, nil, lastWeek); err != nil {
		return nil, err
	}
	if dash.PipelineStats, err = s.pipelineStats(workspaceID); err != nil {
		return nil, err
	}
	if dash.TeamActivity, err = s.teamActivity(workspaceID); err != nil {
		return nil, err
	}
	if dash.ContactsSummary, err = s.contactsSummary(workspaceID); err != nil {
		return nil, err
	}
	if dash.TaskStats, err = s.taskStats(workspaceID, nil); err != nil {
		return nil, err
	}
	if dash.ActivityLogs, err = s.activity.List(workspaceID, 20); err != nil {
		return nil, err
	}
	return dash, nil
}

// TeamMember builds the personal dashboard for one user.
func (s *DashboardService) TeamMember(workspaceID, userID uint) (*TeamMemberDashboard, error) {
	today := startOfDay(time.Now())
	nextWeek := today.AddDate(0, 0, 7)
	lastWeek := today.AddDate(0, 0, -7)

	dash := &TeamMemberDashboard{}
	var err error

	if dash.TodayTasks, err = s.taskWindow(workspaceID, &userID,
		"due_date >= ? AND due_date < ?", today, today.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if dash.UpcomingTasks, err = s.taskWindow(workspaceID, &userID,
		"due_date >= ? AND due_date <= ? AND status != ?", today.AddDate(0, 0, 1), nextWeek, models.StatusCompleted); err != nil {
		return nil, err
	}
	if dash.OverdueTasks, err = s.taskWindow(workspaceID, &userID,
		"due_date < ? AND status != ?", today, models.StatusCompleted); err != nil {
		return nil, err
	}
	if dash.RecentInteractions, err = s.recentInteractions(workspaceID, &userID, lastWeek); err != nil {
		return nil, err
	}

	var myDeals []models.Deal
	if err := s.db.Where("workspace_id = ? AND assigned_to = ?", workspaceID, userID).
		Order("created_at DESC").Find(&myDeals).Error; err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	if dash.MyDeals, err = s.deals.withNames(myDeals); err != nil {
		return nil, err
	}

	if dash.TaskStats, err = s.taskStats(workspaceID, &userID); err != nil {
		return nil, err
	}
	if dash.ActivityLogs, err = s.activity.List(workspaceID, 10); err != nil {
		return nil, err
	}
	return dash, nil
}

// Activity exposes the raw activity feed with a caller-chosen limit.
func (s *DashboardService) Activity(workspaceID uint, limit int) ([]ActivityEntry, error) {
	return s.activity.List(workspaceID, limit)
}

func (s *DashboardService) taskWindow(workspaceID uint, userID *uint, cond string, args ...any) ([]TaskView, error) {
	query := s.db.Where("workspace_id = ?", workspaceID).Where(cond, args...)
	if userID != nil {
		query = query.Where("assigned_to = ?", *userID)
	}

	var tasks []models.Task
	if err := query.Order("due_date ASC, priority_rank DESC").Find(&tasks).Error; err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	return s.tasks.withNames(tasks)
}

func (s *DashboardService) recentInteractions(workspaceID uint, userID *uint, since time.Time) ([]RecentInteraction, error) {
	query := s.db.Table("interactions").
		Select("interactions.*, contacts.name AS contact_name, users.name AS user_name").
		Joins("JOIN contacts ON contacts.id = interactions.contact_id").
		Joins("LEFT JOIN users ON users.id = interactions.user_id").
		Where("contacts.workspace_id = ? AND interactions.interaction_date >= ?", workspaceID, since)
	if userID != nil {
		query = query.Where("interactions.user_id = ?", *userID)
	}

	var rows []RecentInteraction
	if err := query.Order("interactions.interaction_date DESC").Limit(10).
		Scan(&rows).Error; err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	if rows == nil {
		rows = []RecentInteraction{}
	}
	return rows, nil
}

func (s *DashboardService) pipelineStats(workspaceID uint) ([]StageStat, error) {
	var rows []StageStat
	err := s.db.Model(&models.Deal{}).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total_value").
		Where("workspace_id = ?", workspaceID).
		Group("stage").Scan(&rows).Error
	if err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	if rows == nil {
		rows = []StageStat{}
	}
	return rows, nil
}

func (s *DashboardService) teamActivity(workspaceID uint) ([]TeamMemberStat, error) {
	var rows []TeamMemberStat
	err := s.db.Table("users").
		Select(`users.name AS user_name,
			COUNT(DISTINCT tasks.id) AS tasks_count,
			COUNT(DISTINCT CASE WHEN tasks.status = 'completed' THEN tasks.id END) AS completed_tasks`).
		Joins("LEFT JOIN tasks ON tasks.assigned_to = users.id AND tasks.workspace_id = ?", workspaceID).
		Where("users.workspace_id = ?", workspaceID).
		Group("users.id").Scan(&rows).Error
	if err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	if rows == nil {
		rows = []TeamMemberStat{}
	}
	return rows, nil
}

func (s *DashboardService) contactsSummary(workspaceID uint) ([]TypeCount, error) {
	var rows []TypeCount
	err := s.db.Model(&models.Contact{}).
		Select("type, COUNT(*) AS count").
		Where("workspace_id = ?", workspaceID).
		Group("type").Scan(&rows).Error
	if err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	if rows == nil {
		rows = []TypeCount{}
	}
	return rows, nil
}

func (s *DashboardService) taskStats(workspaceID uint, userID *uint) ([]StatusCount, error) {
	query := s.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("workspace_id = ?", workspaceID)
	if userID != nil {
		query = query.Where("assigned_to = ?", *userID)
	}

	var rows []StatusCount
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, response.NewServerError("failed to load dashboard").WithCause(err)
	}
	if rows == nil {
		rows = []StatusCount{}
	}
	return rows, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
