// Package engine wires the actor system: one actor per entity family, each
// processing its messages one at a time.
package engine

import (
	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/engine/actors"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine owns the engagement actors and hands out their PIDs.
type Engine struct {
	system          *actor.ActorSystem
	engagementActor *actor.PID
	bookmarkActor   *actor.PID
	commentActor    *actor.PID
}

// NewEngine spawns the engagement, bookmark and comment actors against the
// given adapter, cache and event publisher.
func NewEngine(system *actor.ActorSystem, db database.Adapter, cacheStore cache.Store, events actors.EventPublisher, metrics *utils.MetricsCollector) *Engine {
	engagementProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewEngagementActor(db, cacheStore, events, metrics)
	})
	bookmarkProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewBookmarkActor(db, cacheStore, metrics)
	})
	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(db, cacheStore, events, metrics)
	})

	return &Engine{
		system:          system,
		engagementActor: system.Root.Spawn(engagementProps),
		bookmarkActor:   system.Root.Spawn(bookmarkProps),
		commentActor:    system.Root.Spawn(commentProps),
	}
}

func (e *Engine) GetEngagementActor() *actor.PID {
	return e.engagementActor
}

func (e *Engine) GetBookmarkActor() *actor.PID {
	return e.bookmarkActor
}

func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}
