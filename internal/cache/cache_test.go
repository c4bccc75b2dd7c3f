package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetInvalidate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "a", []byte("one"), 0))
	require.NoError(t, store.Set(ctx, "b", []byte("two"), 0))

	value, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), value)

	require.NoError(t, store.Invalidate(ctx, "a", "b"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("lived"), 10*time.Millisecond))

	_, err := store.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCommentsKeyIsOrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.Equal(t, CommentsKey([]uuid.UUID{a, b}), CommentsKey([]uuid.UUID{b, a}))
	assert.NotEqual(t, CommentsKey([]uuid.UUID{a}), CommentsKey([]uuid.UUID{b}))
}

func TestKeySchemes(t *testing.T) {
	postID := uuid.New()
	userID := uuid.New()

	assert.Equal(t, "post:metrics:"+postID.String(), PostMetricsKey(postID))
	assert.Equal(t, "bookmarks:"+userID.String(), BookmarksKey(userID))
	assert.Equal(t, "comments:"+postID.String(), CommentsKey([]uuid.UUID{postID}))
}
