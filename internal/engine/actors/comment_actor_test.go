package actors

import (
	"testing"
	"time"

	"devlog-engagement/internal/cache"
	"devlog-engagement/internal/database"
	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentActorFixture struct {
	system *actor.ActorSystem
	pid    *actor.PID
	db     *database.MemoryDB
	postID uuid.UUID
}

func newCommentActorFixture(t *testing.T) *commentActorFixture {
	t.Helper()

	system := actor.NewActorSystem()
	db := database.NewMemoryDB()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(db, cache.NewMemoryStore(), nil, utils.NewMetricsCollector())
	})

	postID := uuid.New()
	db.SeedPost(postID, uuid.New(), 0, 0, nil)

	return &commentActorFixture{
		system: system,
		pid:    system.Root.Spawn(props),
		db:     db,
		postID: postID,
	}
}

func (f *commentActorFixture) request(t *testing.T, msg interface{}) interface{} {
	t.Helper()
	future := f.system.Root.RequestFuture(f.pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func TestCommentActor_CreateAndReply(t *testing.T) {
	f := newCommentActorFixture(t)
	authorID := uuid.New()

	result := f.request(t, &CreateCommentMsg{
		PostID:     f.postID,
		AuthorID:   authorID,
		AuthorName: "gator",
		Content:    "Test comment",
		Visibility: models.VisibilityPublic,
	})
	comment, ok := result.(*models.Comment)
	require.True(t, ok, "expected a comment, got %T: %v", result, result)
	assert.Equal(t, "Test comment", comment.Content)
	assert.Equal(t, authorID, comment.AuthorID)
	assert.Nil(t, comment.ParentID)
	assert.False(t, comment.CreatedAt.IsZero())

	result = f.request(t, &CreateCommentMsg{
		PostID:     f.postID,
		ParentID:   &comment.ID,
		AuthorID:   uuid.New(),
		AuthorName: "swamp",
		Content:    "Reply comment",
		Visibility: models.VisibilityPublic,
	})
	reply, ok := result.(*models.Comment)
	require.True(t, ok)
	assert.Equal(t, comment.ID, *reply.ParentID)

	result = f.request(t, &ListCommentsMsg{PostIDs: []uuid.UUID{f.postID}})
	comments := result.([]*models.Comment)
	require.Len(t, comments, 2)
	// Ordered by creation time, ascending
	assert.Equal(t, comment.ID, comments[0].ID)
	assert.Equal(t, reply.ID, comments[1].ID)
}

func TestCommentActor_CreateValidation(t *testing.T) {
	f := newCommentActorFixture(t)

	// Whitespace-only content is rejected
	result := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		AuthorID: uuid.New(),
		Content:  "   \n\t",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Unknown post
	result = f.request(t, &CreateCommentMsg{
		PostID:   uuid.New(),
		AuthorID: uuid.New(),
		Content:  "hello",
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// Unknown visibility value
	result = f.request(t, &CreateCommentMsg{
		PostID:     f.postID,
		AuthorID:   uuid.New(),
		Content:    "hello",
		Visibility: "friends-only",
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestCommentActor_ParentMustBeOnSamePost(t *testing.T) {
	f := newCommentActorFixture(t)

	otherPostID := uuid.New()
	f.db.SeedPost(otherPostID, uuid.New(), 0, 0, nil)

	result := f.request(t, &CreateCommentMsg{
		PostID:   otherPostID,
		AuthorID: uuid.New(),
		Content:  "comment on the other post",
	})
	parent := result.(*models.Comment)

	// Reply on a different post than its parent is rejected
	result = f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		ParentID: &parent.ID,
		AuthorID: uuid.New(),
		Content:  "cross-post reply",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)

	// Missing parent entirely
	missing := uuid.New()
	result = f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		ParentID: &missing,
		AuthorID: uuid.New(),
		Content:  "reply to nothing",
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestCommentActor_NoNestedReplies(t *testing.T) {
	f := newCommentActorFixture(t)

	top := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		AuthorID: uuid.New(),
		Content:  "top level",
	}).(*models.Comment)

	reply := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		ParentID: &top.ID,
		AuthorID: uuid.New(),
		Content:  "first level reply",
	}).(*models.Comment)

	result := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		ParentID: &reply.ID,
		AuthorID: uuid.New(),
		Content:  "second level reply",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestCommentActor_DeleteIsAuthorOnlyAndKeepsReplies(t *testing.T) {
	f := newCommentActorFixture(t)
	authorID := uuid.New()

	parent := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		AuthorID: authorID,
		Content:  "parent",
	}).(*models.Comment)

	reply := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		ParentID: &parent.ID,
		AuthorID: uuid.New(),
		Content:  "reply",
	}).(*models.Comment)

	// A non-author may not delete
	result := f.request(t, &DeleteCommentMsg{CommentID: parent.ID, RequesterID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// The author may
	result = f.request(t, &DeleteCommentMsg{CommentID: parent.ID, RequesterID: authorID})
	resp, ok := result.(*DeleteCommentResponse)
	require.True(t, ok)
	assert.Equal(t, parent.ID, resp.CommentID)

	// The reply survives, still pointing at the deleted parent
	comments := f.request(t, &ListCommentsMsg{PostIDs: []uuid.UUID{f.postID}}).([]*models.Comment)
	require.Len(t, comments, 1)
	assert.Equal(t, reply.ID, comments[0].ID)
	require.NotNil(t, comments[0].ParentID)
	assert.Equal(t, parent.ID, *comments[0].ParentID)
}

func TestCommentActor_EditIsAuthorOnly(t *testing.T) {
	f := newCommentActorFixture(t)
	authorID := uuid.New()

	comment := f.request(t, &CreateCommentMsg{
		PostID:   f.postID,
		AuthorID: authorID,
		Content:  "first draft",
	}).(*models.Comment)

	result := f.request(t, &EditCommentMsg{
		CommentID:   comment.ID,
		RequesterID: uuid.New(),
		Content:     "hijacked",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = f.request(t, &EditCommentMsg{
		CommentID:   comment.ID,
		RequesterID: authorID,
		Content:     "second draft",
	})
	updated, ok := result.(*models.Comment)
	require.True(t, ok)
	assert.Equal(t, "second draft", updated.Content)
	assert.False(t, updated.UpdatedAt.Before(comment.UpdatedAt))
}

func TestCommentActor_ListSpansMultiplePosts(t *testing.T) {
	f := newCommentActorFixture(t)

	otherPostID := uuid.New()
	f.db.SeedPost(otherPostID, uuid.New(), 0, 0, nil)

	f.request(t, &CreateCommentMsg{PostID: f.postID, AuthorID: uuid.New(), Content: "on post one"})
	f.request(t, &CreateCommentMsg{PostID: otherPostID, AuthorID: uuid.New(), Content: "on post two"})

	comments := f.request(t, &ListCommentsMsg{PostIDs: []uuid.UUID{f.postID, otherPostID}}).([]*models.Comment)
	assert.Len(t, comments, 2)
}
