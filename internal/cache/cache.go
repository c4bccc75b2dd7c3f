// Package cache is the read-cache sync boundary: a key-addressed store the
// engagement core invalidates after every successful write so subsequent
// reads observe fresh state. The cache is always passed by reference into
// whatever needs it, never reached as ambient global state.
package cache

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// DefaultTTL bounds staleness for entries that survive until their next
// invalidation.
const DefaultTTL = 5 * time.Minute

// Store is the contract the core needs from the read cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// PostMetricsKey addresses a post's engagement snapshot.
func PostMetricsKey(postID uuid.UUID) string {
	return "post:metrics:" + postID.String()
}

// BookmarksKey addresses a user's bookmark set.
func BookmarksKey(userID uuid.UUID) string {
	return "bookmarks:" + userID.String()
}

// CommentsKey addresses the comment list of a post set. IDs are sorted so
// the same set always produces the same key.
func CommentsKey(postIDs []uuid.UUID) string {
	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return "comments:" + strings.Join(ids, ",")
}
