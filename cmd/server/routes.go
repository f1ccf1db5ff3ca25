package main

import (
	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/internal/handlers"
	"github.com/foundercrm/backend/internal/middleware"
	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/realtime"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

func buildRouter(cfg *config.Config, a *app) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))

	db := models.GetDB()

	authHandler := handlers.NewAuthHandler(a.authService)
	contactHandler := handlers.NewContactHandler(a.contactService)
	taskHandler := handlers.NewTaskHandler(a.taskService)
	dealHandler := handlers.NewDealHandler(a.dealService)
	dashboardHandler := handlers.NewDashboardHandler(a.dashboardService)
	aiHandler := handlers.NewAIHandler(a.aiService, a.taskService)
	healthHandler := handlers.NewHealthHandler(a.hub)

	r.GET("/health", healthHandler.Check)

	wsHandler := realtime.NewHandler(a.hub, db)
	r.GET("/ws", wsHandler.ServeWS)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		// Public auth routes, rate limited per IP to slow credential
		// stuffing.
		authLimiter := middleware.NewRateLimiter(5, 10)
		auth := api.Group("/auth")
		auth.Use(authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/register-team-member", authHandler.RegisterTeamMember)
			auth.POST("/login", authHandler.Login)
			auth.POST("/accept-invitation", authHandler.AcceptInvitation)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthRequired(db), middleware.WorkspaceAccess())
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/invite", middleware.FounderRequired(), authHandler.Invite)

			contacts := protected.Group("/contacts")
			{
				contacts.GET("", contactHandler.List)
				contacts.POST("", contactHandler.Create)
				contacts.GET("/:id", contactHandler.Get)
				contacts.PUT("/:id", contactHandler.Update)
				contacts.DELETE("/:id", contactHandler.Delete)
				contacts.GET("/:id/interactions", contactHandler.ListInteractions)
				contacts.POST("/:id/interactions", contactHandler.AddInteraction)
			}

			tasks := protected.Group("/tasks")
			{
				tasks.GET("", taskHandler.List)
				tasks.GET("/my-tasks", taskHandler.MyTasks)
				tasks.POST("", taskHandler.Create)
				tasks.GET("/:id", taskHandler.Get)
				tasks.PUT("/:id", taskHandler.Update)
				tasks.DELETE("/:id", taskHandler.Delete)
			}

			deals := protected.Group("/deals")
			{
				deals.GET("", dealHandler.List)
				deals.GET("/pipeline", dealHandler.Pipeline)
				deals.POST("", dealHandler.Create)
				deals.GET("/:id", dealHandler.Get)
				deals.PUT("/:id", dealHandler.Update)
				deals.PATCH("/:id/stage", dealHandler.UpdateStage)
				deals.DELETE("/:id", dealHandler.Delete)
			}

			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/founder", middleware.FounderRequired(), dashboardHandler.Founder)
				dashboard.GET("/team-member", dashboardHandler.TeamMember)
				dashboard.GET("/activity", dashboardHandler.Activity)
			}

			ai := protected.Group("/ai")
			{
				ai.POST("/analyze-note", aiHandler.AnalyzeNote)
				ai.POST("/prioritize-tasks", aiHandler.PrioritizeTasks)
				ai.POST("/generate-email", aiHandler.GenerateEmail)
				ai.POST("/categorize-contact", aiHandler.CategorizeContact)
				ai.POST("/summarize-notes", aiHandler.SummarizeNotes)
				ai.GET("/predict-deal/:dealId", aiHandler.PredictDeal)
				ai.GET("/suggestions", aiHandler.ListSuggestions)
				ai.PATCH("/suggestions/:id/applied", aiHandler.MarkSuggestionApplied)
			}
		}
	}

	return r
}
