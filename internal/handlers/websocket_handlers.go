package handlers

import (
	"log"
	"net/http"

	ws "devlog-engagement/internal/websocket"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin filtering is handled by the CORS middleware in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and subscribes the client to the
// live engagement feed of one post.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(r.URL.Query().Get("postId"))
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &ws.Client{
			Hub:    s.Hub,
			PostID: postID,
			Conn:   conn,
			Send:   make(chan []byte, 64),
		}
		s.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
