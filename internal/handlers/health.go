package handlers

import (
	"net/http"
	"time"

	"github.com/foundercrm/backend/internal/realtime"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	hub *realtime.Hub
}

func NewHealthHandler(hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

// Check reports liveness
// GET /health and GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"wsClients": h.hub.ClientCount(),
	})
}
