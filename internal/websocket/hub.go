package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EngagementEvent is fanned out to every client watching the affected post.
type EngagementEvent struct {
	PostID  uuid.UUID
	Payload []byte
}

// EventEnvelope is the wire shape of an engagement event.
type EventEnvelope struct {
	Type   string      `json:"type"`
	PostID uuid.UUID   `json:"postId"`
	Data   interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active clients, keyed by the post they watch,
// and fans engagement events out to them.
type Hub struct {
	// Registered clients. Maps post ID to a set of active client connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Channel for engagement events from the actors.
	Events chan *EngagementEvent

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Events:     make(chan *EngagementEvent, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.PostID]; !ok {
				h.Clients[client.PostID] = make(map[*Client]bool)
			}
			h.Clients[client.PostID][client] = true
			log.Printf("WebSocket client registered for post %s. Watchers: %d", client.PostID, len(h.Clients[client.PostID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if postClients, ok := h.Clients[client.PostID]; ok {
				if _, clientOk := postClients[client]; clientOk {
					delete(postClients, client)
					if len(postClients) == 0 {
						delete(h.Clients, client.PostID)
					}
					log.Printf("WebSocket client unregistered for post %s. Remaining watchers: %d", client.PostID, len(postClients))
				}
			}
			h.mu.Unlock()

		case event := <-h.Events:
			h.mu.RLock()
			for client := range h.Clients[event.PostID] {
				select {
				case client.Send <- event.Payload:
				default:
					log.Printf("Send buffer full for a watcher of post %s. Event dropped for this client.", event.PostID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishEngagement lets the actors push an event for a post into the hub.
// It implements actors.EventPublisher.
func (h *Hub) PublishEngagement(postID uuid.UUID, kind string, payload interface{}) {
	raw, err := json.Marshal(&EventEnvelope{Type: kind, PostID: postID, Data: payload})
	if err != nil {
		log.Printf("Failed to encode %s event for post %s: %v", kind, postID, err)
		return
	}

	select {
	case h.Events <- &EngagementEvent{PostID: postID, Payload: raw}:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing %s event for post %s. Hub might be busy or blocked.", kind, postID)
	}
}
