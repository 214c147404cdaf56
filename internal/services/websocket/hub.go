package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/punyarb62/dsde-cctv/internal/logger"
)

// StatusEvent describes the outcome of one snapshot retrieval. Events are
// pushed to dashboard clients so they can mark cameras online or offline
// without polling frames themselves.
type StatusEvent struct {
	Camera    string    `json:"camera"`
	Status    string    `json:"status"` // "ok" | "recovered" | "error"
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// HubService fans snapshot status events out to connected websocket
// viewers. Clients that cannot keep up are dropped on write error.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.Mutex
	logger     *logger.Logger
}

func NewHubService(log *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     log,
	}
}

// Run processes register/unregister/broadcast traffic until ctx is done.
func (h *HubService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("status viewer connected, total: %d", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("status viewer disconnected, total: %d", total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Warning("dropping status viewer: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a viewer connection to the hub.
func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

// Unregister removes a viewer connection from the hub.
func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// BroadcastEvent sends a status event to every connected viewer. The event
// is dropped when the broadcast queue is full; status traffic is best
// effort and must never block snapshot serving.
func (h *HubService) BroadcastEvent(ev StatusEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode status event: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
	}
}

// ClientCount returns the number of connected viewers.
func (h *HubService) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *HubService) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
