package actors

import (
	"context"
	"sync"
	"testing"
	"time"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures events published by actors.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishEngagement(postID uuid.UUID, kind string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, kind)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.events...)
}

func TestEngagementActor_ToggleLike(t *testing.T) {
	system := actor.NewActorSystem()
	db := database.NewMemoryDB()
	store := cache.NewMemoryStore()
	events := &recordingPublisher{}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(db, store, events, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	postID := uuid.New()
	authorID := uuid.New()
	userID := uuid.New()
	db.SeedPost(postID, authorID, 10, 2, nil)

	// First toggle adds the membership
	future := system.Root.RequestFuture(pid, &ToggleLikeMsg{PostID: postID, UserID: userID}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	snapshot := result.(*models.PostMetrics)
	assert.Equal(t, 3, snapshot.LikeCount)
	assert.True(t, snapshot.HasLiked(userID))
	assert.Equal(t, len(snapshot.LikedBy), snapshot.LikeCount)

	// Second toggle removes it again
	future = system.Root.RequestFuture(pid, &ToggleLikeMsg{PostID: postID, UserID: userID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)

	snapshot = result.(*models.PostMetrics)
	assert.Equal(t, 2, snapshot.LikeCount)
	assert.False(t, snapshot.HasLiked(userID))
	assert.Equal(t, len(snapshot.LikedBy), snapshot.LikeCount)

	assert.Equal(t, []string{EventLike, EventLike}, events.kinds())
}

func TestEngagementActor_ToggleLikeParity(t *testing.T) {
	system := actor.NewActorSystem()
	db := database.NewMemoryDB()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(db, cache.NewMemoryStore(), nil, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	postID := uuid.New()
	userID := uuid.New()
	db.SeedPost(postID, uuid.New(), 0, 0, nil)

	// An even number of toggles returns membership and count to the start
	for i := 0; i < 4; i++ {
		future := system.Root.RequestFuture(pid, &ToggleLikeMsg{PostID: postID, UserID: userID}, 5*time.Second)
		_, err := future.Result()
		require.NoError(t, err)
	}

	snapshot, err := db.GetPostMetrics(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.LikeCount)
	assert.Empty(t, snapshot.LikedBy)
}

func TestEngagementActor_IncrementView(t *testing.T) {
	system := actor.NewActorSystem()
	db := database.NewMemoryDB()
	store := cache.NewMemoryStore()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(db, store, nil, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	postID := uuid.New()
	db.SeedPost(postID, uuid.New(), 10, 0, nil)

	// A stale cached snapshot must be invalidated by the write
	key := cache.PostMetricsKey(postID)
	require.NoError(t, store.Set(context.Background(), key, []byte(`{"viewCount":10}`), 0))

	future := system.Root.RequestFuture(pid, &IncrementViewMsg{PostID: postID}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	resp := result.(*IncrementViewResponse)
	assert.Equal(t, 11, resp.ViewCount)

	_, err = store.Get(context.Background(), key)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestEngagementActor_UnknownPost(t *testing.T) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(database.NewMemoryDB(), cache.NewMemoryStore(), nil, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	future := system.Root.RequestFuture(pid, &IncrementViewMsg{PostID: uuid.New()}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	future = system.Root.RequestFuture(pid, &ToggleLikeMsg{PostID: uuid.New(), UserID: uuid.New()}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)

	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestEngagementActor_GetMetricsCacheAside(t *testing.T) {
	system := actor.NewActorSystem()
	db := database.NewMemoryDB()
	store := cache.NewMemoryStore()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewEngagementActor(db, store, nil, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	postID := uuid.New()
	db.SeedPost(postID, uuid.New(), 7, 1, []uuid.UUID{uuid.New()})

	future := system.Root.RequestFuture(pid, &GetMetricsMsg{PostID: postID}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	snapshot := result.(*models.PostMetrics)
	assert.Equal(t, 7, snapshot.ViewCount)
	assert.Equal(t, 1, snapshot.LikeCount)

	// The read populated the cache
	_, err = store.Get(context.Background(), cache.PostMetricsKey(postID))
	assert.NoError(t, err)
}
