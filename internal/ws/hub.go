package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"linklet/entity"
)

// Hub maintains the set of active WebSocket clients and broadcasts
// workflow execution events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *entity.ExecutionEvent
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *entity.ExecutionEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishExecution broadcasts an execution lifecycle event to all
// connected clients. It never blocks the caller.
func (h *Hub) PublishExecution(event entity.ExecutionEvent) {
	select {
	case h.broadcast <- &event:
	default:
		if h.log != nil {
			h.log.Warn("execution event dropped, broadcast queue full",
				slog.String("workflow_uuid", event.WorkflowUUID),
			)
		}
	}
}
