package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requests, errors := s.Metrics.Counts()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":         "healthy",
			"uptime_seconds": int(s.Metrics.Uptime().Seconds()),
			"request_count":  requests,
			"error_count":    errors,
			"server_time":    time.Now(),
		})
	}
}
