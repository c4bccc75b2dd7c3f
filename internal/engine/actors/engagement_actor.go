package actors

import (
	stdctx "context"
	"encoding/json"
	"log"
	"time"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for EngagementActor
type (
	IncrementViewMsg struct {
		PostID uuid.UUID `json:"postId"`
	}

	ToggleLikeMsg struct {
		PostID uuid.UUID `json:"postId"`
		UserID uuid.UUID `json:"userId"`
	}

	GetMetricsMsg struct {
		PostID uuid.UUID `json:"postId"`
	}
)

// IncrementViewResponse acknowledges a successful view increment.
type IncrementViewResponse struct {
	PostID    uuid.UUID `json:"postId"`
	ViewCount int       `json:"viewCount"`
}

// EngagementActor owns a post's view counter and like membership. The
// backend is the source of truth; the actor delegates each write, then
// invalidates the read cache and publishes a live event.
type EngagementActor struct {
	db      database.Adapter
	cache   cache.Store
	events  EventPublisher
	metrics *utils.MetricsCollector
}

func NewEngagementActor(db database.Adapter, cacheStore cache.Store, events EventPublisher, metrics *utils.MetricsCollector) actor.Actor {
	return &EngagementActor{
		db:      db,
		cache:   cacheStore,
		events:  events,
		metrics: metrics,
	}
}

func (a *EngagementActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("EngagementActor started with PID: %v", context.Self())

	case *IncrementViewMsg:
		a.handleIncrementView(context, msg)

	case *ToggleLikeMsg:
		a.handleToggleLike(context, msg)

	case *GetMetricsMsg:
		a.handleGetMetrics(context, msg)
	}
}

func (a *EngagementActor) handleIncrementView(context actor.Context, msg *IncrementViewMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	viewCount, err := a.db.IncrementViewCount(ctx, msg.PostID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewTransientIOError("increment view count", err))
		}
		return
	}

	if err := a.cache.Invalidate(ctx, cache.PostMetricsKey(msg.PostID)); err != nil {
		log.Printf("Failed to invalidate metrics cache for post %s: %v", msg.PostID, err)
	}

	if a.events != nil {
		a.events.PublishEngagement(msg.PostID, EventView, map[string]int{"viewCount": viewCount})
	}

	a.metrics.AddOperationLatency("increment_view", time.Since(startTime))
	context.Respond(&IncrementViewResponse{PostID: msg.PostID, ViewCount: viewCount})
}

func (a *EngagementActor) handleToggleLike(context actor.Context, msg *ToggleLikeMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	snapshot, err := a.db.ToggleLike(ctx, msg.PostID, msg.UserID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewTransientIOError("toggle like", err))
		}
		return
	}

	if err := a.cache.Invalidate(ctx, cache.PostMetricsKey(msg.PostID)); err != nil {
		log.Printf("Failed to invalidate metrics cache for post %s: %v", msg.PostID, err)
	}

	if a.events != nil {
		a.events.PublishEngagement(msg.PostID, EventLike, map[string]int{"likeCount": snapshot.LikeCount})
	}

	a.metrics.AddOperationLatency("toggle_like", time.Since(startTime))
	context.Respond(snapshot)
}

// handleGetMetrics is the cache-aside read path: consult the cache store,
// fall back to the backend on a miss, then populate the cache.
func (a *EngagementActor) handleGetMetrics(context actor.Context, msg *GetMetricsMsg) {
	ctx := stdctx.Background()
	key := cache.PostMetricsKey(msg.PostID)

	if raw, err := a.cache.Get(ctx, key); err == nil {
		var snapshot models.PostMetrics
		if err := json.Unmarshal(raw, &snapshot); err == nil {
			context.Respond(&snapshot)
			return
		}
		// A corrupt entry just falls through to the backend.
		log.Printf("Dropping unreadable cache entry %s", key)
	}

	snapshot, err := a.db.GetPostMetrics(ctx, msg.PostID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
		} else {
			context.Respond(utils.NewTransientIOError("get post metrics", err))
		}
		return
	}

	if raw, err := json.Marshal(snapshot); err == nil {
		if err := a.cache.Set(ctx, key, raw, cache.DefaultTTL); err != nil {
			log.Printf("Failed to cache metrics for post %s: %v", msg.PostID, err)
		}
	}

	context.Respond(snapshot)
}
