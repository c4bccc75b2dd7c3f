package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"devlog-engagement/internal/engine/actors"
	"devlog-engagement/internal/middleware"
	"devlog-engagement/internal/models"
	"devlog-engagement/internal/visibility"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a new comment
type CreateCommentRequest struct {
	PostID     string `json:"postId"`
	ParentID   string `json:"parentId,omitempty"` // Optional, for replies
	Content    string `json:"content"`
	Visibility string `json:"visibility,omitempty"`
}

// EditCommentRequest represents a request to edit an existing comment
type EditCommentRequest struct {
	CommentID string `json:"commentId"`
	Content   string `json:"content"`
}

// HandleComment handles comment mutations: POST creates, PUT edits, DELETE
// removes. All three require an identified viewer.
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := middleware.ViewerFromContext(r.Context())
		if viewer.IsAnonymous() {
			http.Error(w, "Sign in to comment", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			postID, err := uuid.Parse(req.PostID)
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}

			var parentID *uuid.UUID
			if req.ParentID != "" {
				parsed, err := uuid.Parse(req.ParentID)
				if err != nil {
					http.Error(w, "Invalid parent comment ID", http.StatusBadRequest)
					return
				}
				parentID = &parsed
			}

			future := s.Context.RequestFuture(s.Engine.GetCommentActor(), &actors.CreateCommentMsg{
				PostID:     postID,
				ParentID:   parentID,
				AuthorID:   *viewer.ID,
				AuthorName: viewer.DisplayName,
				Content:    req.Content,
				Visibility: models.Visibility(req.Visibility),
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to create comment: %v", err), http.StatusInternalServerError)
				return
			}

			s.writeActorResult(w, result)

		case http.MethodPut:
			var req EditCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			commentID, err := uuid.Parse(req.CommentID)
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommentActor(), &actors.EditCommentMsg{
				CommentID:   commentID,
				RequesterID: *viewer.ID,
				Content:     req.Content,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to edit comment: %v", err), http.StatusInternalServerError)
				return
			}

			s.writeActorResult(w, result)

		case http.MethodDelete:
			commentID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}

			future := s.Context.RequestFuture(s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{
				CommentID:   commentID,
				RequesterID: *viewer.ID,
			}, s.RequestTimeout)

			result, err := future.Result()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to delete comment: %v", err), http.StatusInternalServerError)
				return
			}

			s.writeActorResult(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleListComments returns the flat thread for one or more posts, with
// private content the viewer may not read replaced by the placeholder. The
// redaction happens here, server-side, before anything leaves the process.
func (s *Server) HandleListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rawIDs := r.URL.Query().Get("postIds")
		if rawIDs == "" {
			http.Error(w, "postIds is required", http.StatusBadRequest)
			return
		}

		var postIDs []uuid.UUID
		for _, raw := range strings.Split(rawIDs, ",") {
			postID, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				http.Error(w, "Invalid post ID format: "+raw, http.StatusBadRequest)
				return
			}
			postIDs = append(postIDs, postID)
		}

		future := s.Context.RequestFuture(s.Engine.GetCommentActor(),
			&actors.ListCommentsMsg{PostIDs: postIDs},
			s.RequestTimeout)

		result, err := future.Result()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list comments: %v", err), http.StatusInternalServerError)
			return
		}

		comments, ok := result.([]*models.Comment)
		if !ok {
			s.writeActorResult(w, result)
			return
		}

		postAuthors, err := s.DB.GetPostAuthors(r.Context(), postIDs)
		if err != nil {
			http.Error(w, "Failed to resolve post owners", http.StatusBadGateway)
			return
		}

		viewer := middleware.ViewerFromContext(r.Context())
		s.writeActorResult(w, visibility.RedactForViewer(comments, postAuthors, viewer))
	}
}
