package database

import (
	"context"

	"devlog-engagement/internal/models"

	"github.com/google/uuid"
)

// Adapter defines the common interface for the remote data store. MongoDB is
// the primary backend; a PostgreSQL adapter and an in-memory adapter (used by
// tests and local development) implement the same contract.
type Adapter interface {
	// Connection
	Close(ctx context.Context) error

	// Post metrics methods
	GetPostMetrics(ctx context.Context, postID uuid.UUID) (*models.PostMetrics, error)
	GetPostAuthors(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	// IncrementViewCount atomically bumps the counter and returns the new
	// value. Returns NOT_FOUND if the post does not exist.
	IncrementViewCount(ctx context.Context, postID uuid.UUID) (int, error)
	// ToggleLike flips the caller's like membership and returns the resulting
	// snapshot. After every successful call likeCount equals the membership
	// set size.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.PostMetrics, error)

	// Bookmark methods
	AddBookmark(ctx context.Context, userID, postID uuid.UUID) error
	RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) error
	GetUserBookmarks(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}
