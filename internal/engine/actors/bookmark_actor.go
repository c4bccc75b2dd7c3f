package actors

import (
	stdctx "context"
	"encoding/json"
	"log"
	"time"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for BookmarkActor
type (
	AddBookmarkMsg struct {
		UserID uuid.UUID `json:"userId"`
		PostID uuid.UUID `json:"postId"`
	}

	RemoveBookmarkMsg struct {
		UserID uuid.UUID `json:"userId"`
		PostID uuid.UUID `json:"postId"`
	}

	ListBookmarksMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// BookmarkResponse acknowledges a bookmark mutation.
type BookmarkResponse struct {
	UserID uuid.UUID `json:"userId"`
	PostID uuid.UUID `json:"postId"`
}

// BookmarkActor owns (user, post) bookmark membership.
type BookmarkActor struct {
	db      database.Adapter
	cache   cache.Store
	metrics *utils.MetricsCollector
}

func NewBookmarkActor(db database.Adapter, cacheStore cache.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &BookmarkActor{
		db:      db,
		cache:   cacheStore,
		metrics: metrics,
	}
}

func (a *BookmarkActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("BookmarkActor started with PID: %v", context.Self())

	case *AddBookmarkMsg:
		a.handleAdd(context, msg)

	case *RemoveBookmarkMsg:
		a.handleRemove(context, msg)

	case *ListBookmarksMsg:
		a.handleList(context, msg)
	}
}

func (a *BookmarkActor) handleAdd(context actor.Context, msg *AddBookmarkMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.AddBookmark(ctx, msg.UserID, msg.PostID); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewTransientIOError("add bookmark", err))
		}
		return
	}

	if err := a.cache.Invalidate(ctx, cache.BookmarksKey(msg.UserID)); err != nil {
		log.Printf("Failed to invalidate bookmark cache for user %s: %v", msg.UserID, err)
	}

	a.metrics.AddOperationLatency("add_bookmark", time.Since(startTime))
	context.Respond(&BookmarkResponse{UserID: msg.UserID, PostID: msg.PostID})
}

func (a *BookmarkActor) handleRemove(context actor.Context, msg *RemoveBookmarkMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.RemoveBookmark(ctx, msg.UserID, msg.PostID); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewTransientIOError("remove bookmark", err))
		}
		return
	}

	if err := a.cache.Invalidate(ctx, cache.BookmarksKey(msg.UserID)); err != nil {
		log.Printf("Failed to invalidate bookmark cache for user %s: %v", msg.UserID, err)
	}

	a.metrics.AddOperationLatency("remove_bookmark", time.Since(startTime))
	context.Respond(&BookmarkResponse{UserID: msg.UserID, PostID: msg.PostID})
}

// handleList returns the user's bookmarked post IDs; an anonymous or unknown
// user gets the empty set, never a failure.
func (a *BookmarkActor) handleList(context actor.Context, msg *ListBookmarksMsg) {
	ctx := stdctx.Background()

	if msg.UserID == uuid.Nil {
		context.Respond([]uuid.UUID{})
		return
	}

	key := cache.BookmarksKey(msg.UserID)
	if raw, err := a.cache.Get(ctx, key); err == nil {
		var postIDs []uuid.UUID
		if err := json.Unmarshal(raw, &postIDs); err == nil {
			context.Respond(postIDs)
			return
		}
		log.Printf("Dropping unreadable cache entry %s", key)
	}

	postIDs, err := a.db.GetUserBookmarks(ctx, msg.UserID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewTransientIOError("list bookmarks", err))
		}
		return
	}

	if raw, err := json.Marshal(postIDs); err == nil {
		if err := a.cache.Set(ctx, key, raw, cache.DefaultTTL); err != nil {
			log.Printf("Failed to cache bookmarks for user %s: %v", msg.UserID, err)
		}
	}

	context.Respond(postIDs)
}
