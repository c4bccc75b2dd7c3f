package actors

import (
	stdctx "context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for CommentActor
type (
	CreateCommentMsg struct {
		PostID     uuid.UUID         `json:"postId"`
		ParentID   *uuid.UUID        `json:"parentId,omitempty"`
		AuthorID   uuid.UUID         `json:"authorId"`
		AuthorName string            `json:"authorName"`
		Content    string            `json:"content"`
		Visibility models.Visibility `json:"visibility"`
	}

	EditCommentMsg struct {
		CommentID   uuid.UUID `json:"commentId"`
		RequesterID uuid.UUID `json:"requesterId"`
		Content     string    `json:"content"`
	}

	DeleteCommentMsg struct {
		CommentID   uuid.UUID `json:"commentId"`
		RequesterID uuid.UUID `json:"requesterId"`
	}

	ListCommentsMsg struct {
		PostIDs []uuid.UUID `json:"postIds"`
	}
)

// DeleteCommentResponse acknowledges a successful delete.
type DeleteCommentResponse struct {
	CommentID uuid.UUID `json:"commentId"`
	PostID    uuid.UUID `json:"postId"`
}

// CommentActor owns the comment records of every thread. It validates
// writes, delegates persistence to the adapter, and keeps the read cache
// and live feed in step with successful mutations.
type CommentActor struct {
	db      database.Adapter
	cache   cache.Store
	events  EventPublisher
	metrics *utils.MetricsCollector
}

func NewCommentActor(db database.Adapter, cacheStore cache.Store, events EventPublisher, metrics *utils.MetricsCollector) actor.Actor {
	return &CommentActor{
		db:      db,
		cache:   cacheStore,
		events:  events,
		metrics: metrics,
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started with PID: %v", context.Self())

	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)

	case *EditCommentMsg:
		a.handleEditComment(context, msg)

	case *DeleteCommentMsg:
		a.handleDeleteComment(context, msg)

	case *ListCommentsMsg:
		a.handleListComments(context, msg)
	}
}

func (a *CommentActor) respondError(context actor.Context, operation string, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		context.Respond(appErr)
		return
	}
	context.Respond(utils.NewTransientIOError(operation, err))
}

func (a *CommentActor) invalidateThread(ctx stdctx.Context, postID uuid.UUID) {
	key := cache.CommentsKey([]uuid.UUID{postID})
	if err := a.cache.Invalidate(ctx, key); err != nil {
		log.Printf("Failed to invalidate comment cache for post %s: %v", postID, err)
	}
}

func (a *CommentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewValidationError("comment text required"))
		return
	}

	visibility := msg.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.IsValid() {
		context.Respond(utils.NewValidationError("unknown visibility: "+string(msg.Visibility)))
		return
	}

	// The owning post must exist before a thread can grow under it.
	if _, err := a.db.GetPostMetrics(ctx, msg.PostID); err != nil {
		a.respondError(context, "create comment", err)
		return
	}

	if msg.ParentID != nil {
		parent, err := a.db.GetComment(ctx, *msg.ParentID)
		if err != nil {
			a.respondError(context, "create comment", err)
			return
		}
		if parent.PostID != msg.PostID {
			context.Respond(utils.NewCommentNotFoundError(msg.ParentID.String()))
			return
		}
		// Threads are two levels deep at most; a reply cannot get replies.
		if parent.ParentID != nil {
			context.Respond(utils.NewValidationError("replies cannot be nested"))
			return
		}
	}

	now := time.Now()
	newComment := &models.Comment{
		ID:         uuid.New(),
		PostID:     msg.PostID,
		ParentID:   msg.ParentID,
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		Content:    msg.Content,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := a.db.SaveComment(ctx, newComment); err != nil {
		a.respondError(context, "create comment", err)
		return
	}

	a.invalidateThread(ctx, msg.PostID)

	if a.events != nil {
		a.events.PublishEngagement(msg.PostID, EventCommentAdded, newComment)
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	log.Printf("Created comment %s on post %s", newComment.ID, msg.PostID)
	context.Respond(newComment)
}

func (a *CommentActor) handleEditComment(context actor.Context, msg *EditCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		a.respondError(context, "edit comment", err)
		return
	}

	if comment.AuthorID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the author may edit this comment"))
		return
	}

	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewValidationError("comment text required"))
		return
	}

	comment.Content = msg.Content
	comment.UpdatedAt = time.Now()

	if err := a.db.SaveComment(ctx, comment); err != nil {
		a.respondError(context, "edit comment", err)
		return
	}

	a.invalidateThread(ctx, comment.PostID)

	if a.events != nil {
		a.events.PublishEngagement(comment.PostID, EventCommentEdited, comment)
	}

	a.metrics.AddOperationLatency("edit_comment", time.Since(startTime))
	context.Respond(comment)
}

// handleDeleteComment removes the comment after an author check. Replies are
// not cascaded; they stay listed with their original parentId.
func (a *CommentActor) handleDeleteComment(context actor.Context, msg *DeleteCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		a.respondError(context, "delete comment", err)
		return
	}

	if comment.AuthorID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the author may delete this comment"))
		return
	}

	if err := a.db.DeleteComment(ctx, msg.CommentID); err != nil {
		a.respondError(context, "delete comment", err)
		return
	}

	a.invalidateThread(ctx, comment.PostID)

	if a.events != nil {
		a.events.PublishEngagement(comment.PostID, EventCommentDeleted, &DeleteCommentResponse{
			CommentID: msg.CommentID,
			PostID:    comment.PostID,
		})
	}

	a.metrics.AddOperationLatency("delete_comment", time.Since(startTime))
	log.Printf("Deleted comment %s from post %s", msg.CommentID, comment.PostID)
	context.Respond(&DeleteCommentResponse{CommentID: msg.CommentID, PostID: comment.PostID})
}

// handleListComments returns the flat thread for the given posts, ordered by
// creation time. Content is never filtered here; callers redact per viewer.
// Only single-post lists go through the cache, since writes invalidate the
// per-post key.
func (a *CommentActor) handleListComments(context actor.Context, msg *ListCommentsMsg) {
	ctx := stdctx.Background()
	cacheable := len(msg.PostIDs) == 1

	key := cache.CommentsKey(msg.PostIDs)
	if cacheable {
		if raw, err := a.cache.Get(ctx, key); err == nil {
			var comments []*models.Comment
			if err := json.Unmarshal(raw, &comments); err == nil {
				context.Respond(comments)
				return
			}
			log.Printf("Dropping unreadable cache entry %s", key)
		}
	}

	comments, err := a.db.GetCommentsForPosts(ctx, msg.PostIDs)
	if err != nil {
		a.respondError(context, "list comments", err)
		return
	}

	if cacheable {
		if raw, err := json.Marshal(comments); err == nil {
			if err := a.cache.Set(ctx, key, raw, cache.DefaultTTL); err != nil {
				log.Printf("Failed to cache comments for %s: %v", key, err)
			}
		}
	}

	context.Respond(comments)
}
