// Package visibility decides what a given viewer may see of a comment's
// content. The store always returns true content; redaction happens here,
// at display time.
package visibility

import (
	"devlog-engagement/internal/models"

	"github.com/google/uuid"
)

// RedactedPlaceholder replaces the content of a private comment the viewer
// may not read. Author identity and timestamps still render.
const RedactedPlaceholder = "This comment is private."

// CanViewContent reports whether the viewer may see the comment's real
// content: public comments are visible to everyone; private comments only to
// their author and to the owner of the post they sit on. An anonymous viewer
// can only ever see public comments.
func CanViewContent(comment *models.Comment, postAuthorID uuid.UUID, viewer *models.Viewer) bool {
	if comment.Visibility == models.VisibilityPublic {
		return true
	}
	if viewer.IsAnonymous() {
		return false
	}
	return viewer.Is(comment.AuthorID) || viewer.Is(postAuthorID)
}

// RedactForViewer returns display copies of the comments with private
// content the viewer may not read replaced by the placeholder. The inputs
// are never mutated. Comments on posts missing from postAuthors are treated
// as having an unknown owner; only the comment author sees those in full.
func RedactForViewer(comments []*models.Comment, postAuthors map[uuid.UUID]uuid.UUID, viewer *models.Viewer) []*models.Comment {
	redacted := make([]*models.Comment, len(comments))
	for i, comment := range comments {
		cp := *comment
		if !CanViewContent(comment, postAuthors[comment.PostID], viewer) {
			cp.Content = RedactedPlaceholder
		}
		redacted[i] = &cp
	}
	return redacted
}
