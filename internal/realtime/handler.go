package realtime

import (
	"net/http"
	"strings"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/utils"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/foundercrm/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub *Hub
	db  *gorm.DB
}

func NewHandler(hub *Hub, db *gorm.DB) *Handler {
	return &Handler{hub: hub, db: db}
}

// ServeWS authenticates the handshake and hands the connection to the hub.
// The token rides in the query string or an Authorization header; a bad
// token closes the connection before any room join.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Unauthorized(c, "authentication required")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	var user models.User
	err = h.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error
	if err != nil || user.WorkspaceID == nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		UserName:    user.Name,
		WorkspaceID: *user.WorkspaceID,
		hub:         h.hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
	}

	h.hub.register <- client

	go client.readPump()
	go client.writePump()
}
