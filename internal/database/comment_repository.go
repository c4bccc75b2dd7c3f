// internal/database/comment_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID         string    `bson:"_id"`
	PostID     string    `bson:"postId"`
	ParentID   *string   `bson:"parentId,omitempty"`
	AuthorID   string    `bson:"authorId"`
	AuthorName string    `bson:"authorName"`
	Content    string    `bson:"content"`
	Visibility string    `bson:"visibility"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func commentModelToDocument(comment *models.Comment) *CommentDocument {
	doc := &CommentDocument{
		ID:         comment.ID.String(),
		PostID:     comment.PostID.String(),
		AuthorID:   comment.AuthorID.String(),
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		Visibility: string(comment.Visibility),
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}

	if comment.ParentID != nil {
		parentIDStr := comment.ParentID.String()
		doc.ParentID = &parentIDStr
	}

	return doc
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}

	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	comment := &models.Comment{
		ID:         id,
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: doc.AuthorName,
		Content:    doc.Content,
		Visibility: models.Visibility(doc.Visibility),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}

	if doc.ParentID != nil {
		parentID, err := uuid.Parse(*doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID: %v", err)
		}
		comment.ParentID = &parentID
	}

	return comment, nil
}

// SaveComment creates or updates a comment in MongoDB
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	doc := commentModelToDocument(comment)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Comments.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return utils.NewTransientIOError("save comment", err)
	}

	return nil
}

// GetComment retrieves a comment by ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	if err != nil {
		return nil, utils.NewTransientIOError("get comment", err)
	}

	return commentDocumentToModel(&doc)
}

// GetCommentsForPosts retrieves every comment on the given posts, top-level
// and replies alike, flat and ordered by creation time ascending. No
// visibility filtering happens here; redaction is the resolver's job at
// display time.
func (m *MongoDB) GetCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) ([]*models.Comment, error) {
	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, utils.NewTransientIOError("list comments", err)
	}
	defer cursor.Close(ctx)

	comments := make([]*models.Comment, 0)
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewTransientIOError("decode comment", err)
		}
		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewTransientIOError("list comments", err)
	}

	return comments, nil
}

// DeleteComment removes a comment. Replies are deliberately left in place
// with their original parentId; there is no cascade.
func (m *MongoDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := m.Comments.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return utils.NewTransientIOError("delete comment", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewCommentNotFoundError(id.String())
	}
	return nil
}
