// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"

	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostDocument represents the engagement fields of a post in MongoDB. The
// rest of the post record (title, body, category) belongs to the publishing
// side and is never touched here.
type PostDocument struct {
	ID        string   `bson:"_id"`
	AuthorID  string   `bson:"authorid"`
	ViewCount int      `bson:"viewcount"`
	LikeCount int      `bson:"likecount"`
	LikedBy   []string `bson:"likedby"`
}

// DocumentToMetrics converts a MongoDB post document to a PostMetrics model.
func DocumentToMetrics(doc *PostDocument) (*models.PostMetrics, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	likedBy := make([]uuid.UUID, 0, len(doc.LikedBy))
	for _, raw := range doc.LikedBy {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in like set: %v", err)
		}
		likedBy = append(likedBy, userID)
	}

	return &models.PostMetrics{
		ID:        id,
		AuthorID:  authorID,
		ViewCount: doc.ViewCount,
		LikeCount: doc.LikeCount,
		LikedBy:   likedBy,
	}, nil
}

// GetPostMetrics retrieves the engagement snapshot for a post.
func (m *MongoDB) GetPostMetrics(ctx context.Context, postID uuid.UUID) (*models.PostMetrics, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": postID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewPostNotFoundError(postID.String())
	}
	if err != nil {
		return nil, utils.NewTransientIOError("get post metrics", err)
	}

	return DocumentToMetrics(&doc)
}

// GetPostAuthors returns the author of each existing post in postIDs. Posts
// that do not exist are simply absent from the result.
func (m *MongoDB) GetPostAuthors(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}

	cursor, err := m.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "authorid": 1}))
	if err != nil {
		return nil, utils.NewTransientIOError("get post authors", err)
	}
	defer cursor.Close(ctx)

	authors := make(map[uuid.UUID]uuid.UUID)
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewTransientIOError("decode post author", err)
		}
		postID, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID: %v", err)
		}
		authorID, err := uuid.Parse(doc.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid author ID: %v", err)
		}
		authors[postID] = authorID
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewTransientIOError("get post authors", err)
	}

	return authors, nil
}

// IncrementViewCount atomically increments the view counter with $inc and
// returns the updated value, so concurrent callers never clobber each other.
func (m *MongoDB) IncrementViewCount(ctx context.Context, postID uuid.UUID) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PostDocument
	err := m.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID.String()},
		bson.M{"$inc": bson.M{"viewcount": 1}},
		opts,
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, utils.NewPostNotFoundError(postID.String())
	}
	if err != nil {
		return 0, utils.NewTransientIOError("increment view count", err)
	}

	return doc.ViewCount, nil
}

// ToggleLike flips userID's membership in the like set. Each branch is a
// guarded update whose filter asserts the current membership state, so a
// racing toggle by the same user makes the filter miss and we retry against
// fresh state. likeCount moves with the set in the same update.
func (m *MongoDB) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.PostMetrics, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	id := postID.String()
	user := userID.String()

	for attempt := 0; attempt < 3; attempt++ {
		// Branch 1: user currently likes the post -> remove.
		var doc PostDocument
		err := m.Posts.FindOneAndUpdate(ctx,
			bson.M{"_id": id, "likedby": user},
			bson.M{
				"$pull": bson.M{"likedby": user},
				"$inc":  bson.M{"likecount": -1},
			},
			opts,
		).Decode(&doc)
		if err == nil {
			return DocumentToMetrics(&doc)
		}
		if err != mongo.ErrNoDocuments {
			return nil, utils.NewTransientIOError("toggle like", err)
		}

		// Branch 2: user does not like the post -> add.
		err = m.Posts.FindOneAndUpdate(ctx,
			bson.M{"_id": id, "likedby": bson.M{"$ne": user}},
			bson.M{
				"$addToSet": bson.M{"likedby": user},
				"$inc":      bson.M{"likecount": 1},
			},
			opts,
		).Decode(&doc)
		if err == nil {
			return DocumentToMetrics(&doc)
		}
		if err != mongo.ErrNoDocuments {
			return nil, utils.NewTransientIOError("toggle like", err)
		}

		// Both branches missed: the post is absent, or another session
		// toggled between our two updates. Distinguish and retry the race.
		count, err := m.Posts.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return nil, utils.NewTransientIOError("toggle like", err)
		}
		if count == 0 {
			return nil, utils.NewPostNotFoundError(id)
		}
	}

	return nil, utils.NewTransientIOError("toggle like", fmt.Errorf("contention on post %s", id))
}
