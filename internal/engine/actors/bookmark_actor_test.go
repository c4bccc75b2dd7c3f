package actors

import (
	"testing"
	"time"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnBookmarkActor(t *testing.T) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewBookmarkActor(database.NewMemoryDB(), cache.NewMemoryStore(), utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func TestBookmarkActor_AddRemoveList(t *testing.T) {
	system, pid := spawnBookmarkActor(t)

	userID := uuid.New()
	postID := uuid.New()

	// Add
	future := system.Root.RequestFuture(pid, &AddBookmarkMsg{UserID: userID, PostID: postID}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	_, isErr := result.(*utils.AppError)
	require.False(t, isErr)

	// List contains the post
	future = system.Root.RequestFuture(pid, &ListBookmarksMsg{UserID: userID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{postID}, result.([]uuid.UUID))

	// Remove returns the set to empty
	future = system.Root.RequestFuture(pid, &RemoveBookmarkMsg{UserID: userID, PostID: postID}, 5*time.Second)
	_, err = future.Result()
	require.NoError(t, err)

	future = system.Root.RequestFuture(pid, &ListBookmarksMsg{UserID: userID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	assert.Empty(t, result.([]uuid.UUID))
}

func TestBookmarkActor_DuplicateAddConflicts(t *testing.T) {
	system, pid := spawnBookmarkActor(t)

	userID := uuid.New()
	postID := uuid.New()

	future := system.Root.RequestFuture(pid, &AddBookmarkMsg{UserID: userID, PostID: postID}, 5*time.Second)
	_, err := future.Result()
	require.NoError(t, err)

	future = system.Root.RequestFuture(pid, &AddBookmarkMsg{UserID: userID, PostID: postID}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)

	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConflict, appErr.Code)

	// The duplicate never produced a second entry
	future = system.Root.RequestFuture(pid, &ListBookmarksMsg{UserID: userID}, 5*time.Second)
	result, err = future.Result()
	require.NoError(t, err)
	assert.Len(t, result.([]uuid.UUID), 1)
}

func TestBookmarkActor_RemoveAbsentIsNoop(t *testing.T) {
	system, pid := spawnBookmarkActor(t)

	future := system.Root.RequestFuture(pid, &RemoveBookmarkMsg{UserID: uuid.New(), PostID: uuid.New()}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	_, isErr := result.(*utils.AppError)
	assert.False(t, isErr)
}

func TestBookmarkActor_AnonymousListIsEmpty(t *testing.T) {
	system, pid := spawnBookmarkActor(t)

	future := system.Root.RequestFuture(pid, &ListBookmarksMsg{UserID: uuid.Nil}, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	assert.Empty(t, result.([]uuid.UUID))
}
