package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"devlog-engagement/internal/engine/actors"
	"devlog-engagement/internal/middleware"

	"github.com/google/uuid"
)

// BookmarkRequest represents a request to add or remove a bookmark
type BookmarkRequest struct {
	PostID string `json:"postId"`
}

// HandleBookmarks serves the viewer's bookmark set: GET lists it, POST adds
// a post, DELETE removes one. Listing never fails for an anonymous viewer;
// it simply returns the empty set.
func (s *Server) HandleBookmarks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := middleware.ViewerFromContext(r.Context())

		switch r.Method {
		case http.MethodGet:
			userID := uuid.Nil
			if !viewer.IsAnonymous() {
				userID = *viewer.ID
			}

			future := s.Context.RequestFuture(s.Engine.GetBookmarkActor(),
				&actors.ListBookmarksMsg{UserID: userID},
				s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to list bookmarks: %v", err), http.StatusInternalServerError)
				return
			}

			s.writeActorResult(w, result)

		case http.MethodPost:
			if viewer.IsAnonymous() {
				http.Error(w, "Sign in to bookmark posts", http.StatusUnauthorized)
				return
			}

			var req BookmarkRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			postID, err := uuid.Parse(req.PostID)
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetBookmarkActor(),
				&actors.AddBookmarkMsg{UserID: *viewer.ID, PostID: postID},
				s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to add bookmark: %v", err), http.StatusInternalServerError)
				return
			}

			s.writeActorResult(w, result)

		case http.MethodDelete:
			if viewer.IsAnonymous() {
				http.Error(w, "Sign in to bookmark posts", http.StatusUnauthorized)
				return
			}

			postID, err := uuid.Parse(r.URL.Query().Get("postId"))
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetBookmarkActor(),
				&actors.RemoveBookmarkMsg{UserID: *viewer.ID, PostID: postID},
				s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to remove bookmark: %v", err), http.StatusInternalServerError)
				return
			}

			s.writeActorResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
