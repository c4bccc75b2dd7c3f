package visibility

import (
	"testing"

	"devlog-engagement/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewerFor(id uuid.UUID) *models.Viewer {
	return &models.Viewer{ID: &id}
}

func TestCanViewContent(t *testing.T) {
	postOwnerID := uuid.New()
	commentAuthorID := uuid.New()
	strangerID := uuid.New()

	publicComment := &models.Comment{
		ID:         uuid.New(),
		AuthorID:   commentAuthorID,
		Visibility: models.VisibilityPublic,
	}
	privateComment := &models.Comment{
		ID:         uuid.New(),
		AuthorID:   commentAuthorID,
		Visibility: models.VisibilityPrivate,
	}

	tests := []struct {
		name    string
		comment *models.Comment
		viewer  *models.Viewer
		want    bool
	}{
		{"public comment, anonymous viewer", publicComment, models.Anonymous(), true},
		{"public comment, stranger", publicComment, viewerFor(strangerID), true},
		{"private comment, anonymous viewer", privateComment, models.Anonymous(), false},
		{"private comment, stranger", privateComment, viewerFor(strangerID), false},
		{"private comment, comment author", privateComment, viewerFor(commentAuthorID), true},
		{"private comment, post owner", privateComment, viewerFor(postOwnerID), true},
		{"private comment, nil viewer", privateComment, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewContent(tt.comment, postOwnerID, tt.viewer))
		})
	}
}

func TestRedactForViewer(t *testing.T) {
	postID := uuid.New()
	authorU1 := uuid.New() // owns the post as well
	authorU2 := uuid.New()
	strangerID := uuid.New()
	postAuthors := map[uuid.UUID]uuid.UUID{postID: authorU1}

	// Public comment A by the post owner U1, private reply B by U2.
	commentA := &models.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		AuthorID:   authorU1,
		Content:    "public thoughts",
		Visibility: models.VisibilityPublic,
	}
	commentB := &models.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		ParentID:   &commentA.ID,
		AuthorID:   authorU2,
		Content:    "private reply",
		Visibility: models.VisibilityPrivate,
	}
	thread := []*models.Comment{commentA, commentB}

	// Anonymous viewer sees A's content and a placeholder for B
	redacted := RedactForViewer(thread, postAuthors, models.Anonymous())
	require.Len(t, redacted, 2)
	assert.Equal(t, "public thoughts", redacted[0].Content)
	assert.Equal(t, RedactedPlaceholder, redacted[1].Content)
	// Author identity and timestamps still render
	assert.Equal(t, authorU2, redacted[1].AuthorID)

	// U1 owns the post and sees both in full
	redacted = RedactForViewer(thread, postAuthors, viewerFor(authorU1))
	assert.Equal(t, "public thoughts", redacted[0].Content)
	assert.Equal(t, "private reply", redacted[1].Content)

	// U2 wrote B and sees both in full
	redacted = RedactForViewer(thread, postAuthors, viewerFor(authorU2))
	assert.Equal(t, "public thoughts", redacted[0].Content)
	assert.Equal(t, "private reply", redacted[1].Content)

	// A signed-in stranger still gets the placeholder for B
	redacted = RedactForViewer(thread, postAuthors, viewerFor(strangerID))
	assert.Equal(t, RedactedPlaceholder, redacted[1].Content)

	// Inputs were not mutated
	assert.Equal(t, "private reply", commentB.Content)
}

func TestRedactForViewer_UnknownPostOwner(t *testing.T) {
	authorID := uuid.New()
	comment := &models.Comment{
		ID:         uuid.New(),
		PostID:     uuid.New(),
		AuthorID:   authorID,
		Content:    "secret",
		Visibility: models.VisibilityPrivate,
	}

	// Without an owner entry only the author sees the content
	redacted := RedactForViewer([]*models.Comment{comment}, map[uuid.UUID]uuid.UUID{}, viewerFor(uuid.New()))
	assert.Equal(t, RedactedPlaceholder, redacted[0].Content)

	redacted = RedactForViewer([]*models.Comment{comment}, map[uuid.UUID]uuid.UUID{}, viewerFor(authorID))
	assert.Equal(t, "secret", redacted[0].Content)
}
