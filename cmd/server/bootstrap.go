package main

import (
	"context"

	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/realtime"
	"github.com/foundercrm/backend/internal/services"
	"github.com/foundercrm/backend/internal/utils"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// app holds the wired services handed to the route builder.
type app struct {
	authService      *services.AuthService
	contactService   *services.ContactService
	taskService      *services.TaskService
	dealService      *services.DealService
	dashboardService *services.DashboardService
	aiService        *services.AIService
	hub              *realtime.Hub
	queue            services.BeautifyQueue
	worker           *services.Worker
	maintenance      *cron.Cron
}

// bootstrap initializes the database, services, realtime hub, queue and
// schedulers.
func bootstrap(cfg *config.Config) *app {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	db := models.GetDB()

	aiService := services.NewAIService(db, &cfg.AI)

	// Beautification jobs go through Redis when it is reachable, otherwise
	// they run in-process.
	var queue services.BeautifyQueue
	var worker *services.Worker
	if cfg.Redis.Enabled {
		asyncQueue, err := services.NewAsyncQueue(&cfg.Redis)
		if err == nil {
			queue = asyncQueue
			worker = services.NewWorker(&cfg.Redis, aiService.BeautifyStatusMessage)
			if worker != nil {
				worker.Start()
			}
		} else {
			logger.Warn().Err(err).Msg("Redis unavailable, running beautification jobs in-process")
		}
	}
	if queue == nil {
		queue = services.NewSyncQueue(func(job *services.BeautifyJob) {
			if err := aiService.BeautifyStatusMessage(context.Background(), job); err != nil {
				logger.Warn().Err(err).Uint("task_id", job.TaskID).Msg("beautification failed")
			}
		})
	}

	taskService := services.NewTaskService(db, queue)
	contactService := services.NewContactService(db)
	dealService := services.NewDealService(db)

	hub := realtime.NewHub()
	go hub.Run()

	return &app{
		authService:      services.NewAuthService(db, &cfg.JWT, cfg.Frontend.BaseURL),
		contactService:   contactService,
		taskService:      taskService,
		dealService:      dealService,
		dashboardService: services.NewDashboardService(db, taskService, dealService),
		aiService:        aiService,
		hub:              hub,
		queue:            queue,
		worker:           worker,
		maintenance:      services.StartMaintenanceScheduler(db),
	}
}

func (a *app) shutdown() {
	if a.worker != nil {
		a.worker.Stop()
	}
	if a.queue != nil {
		a.queue.Close()
	}
	if a.maintenance != nil {
		a.maintenance.Stop()
	}
}
