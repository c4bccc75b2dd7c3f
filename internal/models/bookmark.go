package models

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a (user, post) membership pair with set semantics: no
// ordering, no duplicates, created on add and destroyed on remove.
type Bookmark struct {
	UserID    uuid.UUID `json:"userId"`
	PostID    uuid.UUID `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
