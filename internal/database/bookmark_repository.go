// internal/database/bookmark_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"devlog-engagement/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookmarkDocument represents a saved-for-later pair in MongoDB.
type BookmarkDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userid"`
	PostID    string    `bson:"postid"`
	CreatedAt time.Time `bson:"createdat"`
}

func bookmarkDocID(userID, postID uuid.UUID) string {
	return userID.String() + ":" + postID.String()
}

// AddBookmark inserts the (user, post) pair. A duplicate insert trips the
// unique index and is surfaced as CONFLICT.
func (m *MongoDB) AddBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	doc := BookmarkDocument{
		ID:        bookmarkDocID(userID, postID),
		UserID:    userID.String(),
		PostID:    postID.String(),
		CreatedAt: time.Now(),
	}

	_, err := m.Bookmarks.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrConflict,
			fmt.Sprintf("Post %s already bookmarked", postID.String()), err)
	}
	if err != nil {
		return utils.NewTransientIOError("add bookmark", err)
	}

	return nil
}

// RemoveBookmark deletes the pair; removing an absent pair is a no-op.
func (m *MongoDB) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := m.Bookmarks.DeleteOne(ctx, bson.M{"_id": bookmarkDocID(userID, postID)})
	if err != nil {
		return utils.NewTransientIOError("remove bookmark", err)
	}
	return nil
}

// GetUserBookmarks returns the post IDs the user has saved. An unknown user
// simply has no bookmarks.
func (m *MongoDB) GetUserBookmarks(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	cursor, err := m.Bookmarks.Find(ctx, bson.M{"userid": userID.String()})
	if err != nil {
		return nil, utils.NewTransientIOError("list bookmarks", err)
	}
	defer cursor.Close(ctx)

	postIDs := make([]uuid.UUID, 0)
	for cursor.Next(ctx) {
		var doc BookmarkDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewTransientIOError("decode bookmark", err)
		}
		postID, err := uuid.Parse(doc.PostID)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID in bookmark: %v", err)
		}
		postIDs = append(postIDs, postID)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewTransientIOError("list bookmarks", err)
	}

	return postIDs, nil
}
