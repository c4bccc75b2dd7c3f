package models

import (
	"github.com/google/uuid"
)

// PostMetrics holds the engagement counters attached to a post. Posts
// themselves are created and rendered elsewhere; this service only ever
// mutates the three engagement fields.
type PostMetrics struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"authorId"`
	ViewCount int         `json:"viewCount"`
	LikeCount int         `json:"likeCount"`
	LikedBy   []uuid.UUID `json:"likedByUser"`
}

// HasLiked reports whether userID is in the like membership set.
func (p *PostMetrics) HasLiked(userID uuid.UUID) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
