package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who may read a comment's content.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// IsValid reports whether v is one of the two known visibility values.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Comment is a single entry in a post's thread. ParentID, when set, must
// reference a top-level comment on the same post; nesting never goes deeper
// than one reply level.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	PostID     uuid.UUID  `json:"postId"`
	ParentID   *uuid.UUID `json:"parentId,omitempty"`
	AuthorID   uuid.UUID  `json:"authorId"`
	AuthorName string     `json:"authorName"`
	Content    string     `json:"content"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
