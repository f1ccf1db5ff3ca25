package realtime

import (
	"encoding/json"
	"time"

	"github.com/foundercrm/backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Client is one authenticated websocket connection.
type Client struct {
	ID          string
	UserID      uint
	UserName    string
	WorkspaceID uint

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// relayEvents maps each client-submitted event to the attribution key its
// rebroadcast carries.
var relayEvents = map[string]string{
	"task_updated":       "updatedBy",
	"deal_stage_changed": "changedBy",
	"contact_created":    "createdBy",
	"interaction_added":  "addedBy",
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Str("client", c.ID).Msg("websocket read error")
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			logger.Warn().Err(err).Str("client", c.ID).Msg("dropping malformed frame")
			continue
		}
		c.relay(frame)
	}
}

// relay rebroadcasts a known event to the rest of the workspace room with
// the sender's name attached. Unknown events are dropped.
func (c *Client) relay(frame Frame) {
	if frame.Event == "typing" {
		context := any(nil)
		if frame.Data != nil {
			context = frame.Data["context"]
		}
		c.hub.broadcast <- workspaceMessage{
			workspaceID: c.WorkspaceID,
			exclude:     c.ID,
			frame: Frame{
				Event: "user_typing",
				Data: map[string]any{
					"userId":   c.UserID,
					"userName": c.UserName,
					"context":  context,
				},
			},
		}
		return
	}

	attribution, known := relayEvents[frame.Event]
	if !known {
		logger.Debug().Str("event", frame.Event).Str("client", c.ID).Msg("unhandled event")
		return
	}

	data := frame.Data
	if data == nil {
		data = map[string]any{}
	}
	data[attribution] = c.UserName

	c.hub.broadcast <- workspaceMessage{
		workspaceID: c.WorkspaceID,
		exclude:     c.ID,
		frame:       Frame{Event: frame.Event, Data: data},
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
