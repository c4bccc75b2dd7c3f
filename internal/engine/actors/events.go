package actors

import (
	"github.com/google/uuid"
)

// Event kinds published to the live engagement feed after successful writes.
const (
	EventView           = "view"
	EventLike           = "like"
	EventCommentAdded   = "comment_added"
	EventCommentEdited  = "comment_edited"
	EventCommentDeleted = "comment_deleted"
)

// EventPublisher receives engagement events for live subscribers. The
// websocket hub implements it; actors tolerate a nil publisher.
type EventPublisher interface {
	PublishEngagement(postID uuid.UUID, kind string, payload interface{})
}
