package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"devlog-engagement/internal/engine/actors"
	"devlog-engagement/internal/middleware"

	"github.com/google/uuid"
)

// ViewRequest represents a request to record one view of a post
type ViewRequest struct {
	PostID string `json:"postId"`
}

// LikeRequest represents a request to toggle the caller's like on a post
type LikeRequest struct {
	PostID string `json:"postId"`
}

// HandlePostMetrics returns the engagement snapshot of a post
func (s *Server) HandlePostMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		postID, err := uuid.Parse(r.URL.Query().Get("postId"))
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetEngagementActor(),
			&actors.GetMetricsMsg{PostID: postID},
			s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get post metrics: %v", err), http.StatusInternalServerError)
			return
		}

		s.writeActorResult(w, result)
	}
}

// HandleView records one view of a post. No identity is required; anonymous
// readers count too.
func (s *Server) HandleView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ViewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetEngagementActor(),
			&actors.IncrementViewMsg{PostID: postID},
			s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to record view: %v", err), http.StatusInternalServerError)
			return
		}

		s.writeActorResult(w, result)
	}
}

// HandleLike toggles the viewer's like on a post and returns the resulting
// metrics snapshot.
func (s *Server) HandleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		viewer := middleware.ViewerFromContext(r.Context())
		if viewer.IsAnonymous() {
			http.Error(w, "Sign in to like posts", http.StatusUnauthorized)
			return
		}

		var req LikeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		future := s.Context.RequestFuture(s.Engine.GetEngagementActor(),
			&actors.ToggleLikeMsg{PostID: postID, UserID: *viewer.ID},
			s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to toggle like: %v", err), http.StatusInternalServerError)
			return
		}

		s.writeActorResult(w, result)
	}
}
