package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"devlog-engagement/internal/database"
	"devlog-engagement/internal/engine"
	"devlog-engagement/internal/utils"
	"devlog-engagement/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	DB             database.Adapter
	Hub            *websocket.Hub
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	db database.Adapter,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		DB:             db,
		Hub:            hub,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// writeActorResult encodes an actor response, translating an AppError into
// the matching HTTP status, and feeds the request/error counters.
func (s *Server) writeActorResult(w http.ResponseWriter, result interface{}) {
	s.Metrics.IncrementRequests()

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Error(), utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
