package realtime

import (
	"encoding/json"
	"sync"

	"github.com/foundercrm/backend/pkg/logger"
)

// Frame is the wire format: a named event plus its payload.
type Frame struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
}

type workspaceMessage struct {
	workspaceID uint
	exclude     string
	frame       Frame
}

// Hub tracks connected clients and fans frames out to workspace rooms. The
// hub never validates or persists payloads; it is a relay.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan workspaceMessage
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan workspaceMessage),
	}
}

// Run owns the client map. Call it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info().Str("client", client.ID).Uint("user_id", client.UserID).
				Int("total", total).Msg("websocket client connected")

			h.emitExcept(client.WorkspaceID, client.ID, Frame{
				Event: "user_online",
				Data:  map[string]any{"userId": client.UserID, "userName": client.UserName},
			})

		case client := <-h.unregister:
			h.mu.Lock()
			_, known := h.clients[client.ID]
			if known {
				close(client.send)
				delete(h.clients, client.ID)
			}
			total := len(h.clients)
			h.mu.Unlock()
			if !known {
				continue
			}
			logger.Info().Str("client", client.ID).Uint("user_id", client.UserID).
				Int("total", total).Msg("websocket client disconnected")

			h.emitExcept(client.WorkspaceID, client.ID, Frame{
				Event: "user_offline",
				Data:  map[string]any{"userId": client.UserID, "userName": client.UserName},
			})

		case msg := <-h.broadcast:
			h.emitExcept(msg.workspaceID, msg.exclude, msg.frame)
		}
	}
}

// EmitToWorkspace pushes a server-originated frame to every connection in
// a workspace.
func (h *Hub) EmitToWorkspace(workspaceID uint, event string, data map[string]any) {
	h.emitExcept(workspaceID, "", Frame{Event: event, Data: data})
}

// EmitToUser pushes a frame to every connection a user holds.
func (h *Hub) EmitToUser(userID uint, event string, data map[string]any) {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID == userID {
			h.deliver(client, payload)
		}
	}
}

func (h *Hub) emitExcept(workspaceID uint, exclude string, frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Warn().Err(err).Str("event", frame.Event).Msg("failed to encode frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.WorkspaceID != workspaceID || client.ID == exclude {
			continue
		}
		h.deliver(client, payload)
	}
}

// deliver drops the connection when its send buffer is full rather than
// blocking the hub.
func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		go func() { h.unregister <- client }()
	}
}

// ClientCount reports connected clients, for the health endpoint.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
