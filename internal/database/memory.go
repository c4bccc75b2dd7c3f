// internal/database/memory.go
package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/google/uuid"
)

// MemoryDB is an in-memory Adapter used by tests and local development. It
// mirrors the backend contract, including the atomicity of the counter
// updates, by serializing writes behind a mutex.
type MemoryDB struct {
	mu        sync.RWMutex
	posts     map[uuid.UUID]*models.PostMetrics
	bookmarks map[uuid.UUID]map[uuid.UUID]time.Time // userID -> postID -> created
	comments  map[uuid.UUID]*models.Comment
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		posts:     make(map[uuid.UUID]*models.PostMetrics),
		bookmarks: make(map[uuid.UUID]map[uuid.UUID]time.Time),
		comments:  make(map[uuid.UUID]*models.Comment),
	}
}

func (m *MemoryDB) Close(ctx context.Context) error {
	return nil
}

// SeedPost registers a post's engagement record. Posts are created by the
// publishing side in production; tests and dev setups seed them here.
func (m *MemoryDB) SeedPost(postID, authorID uuid.UUID, viewCount, likeCount int, likedBy []uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts[postID] = &models.PostMetrics{
		ID:        postID,
		AuthorID:  authorID,
		ViewCount: viewCount,
		LikeCount: likeCount,
		LikedBy:   append([]uuid.UUID{}, likedBy...),
	}
}

func copyMetrics(p *models.PostMetrics) *models.PostMetrics {
	cp := *p
	cp.LikedBy = append([]uuid.UUID{}, p.LikedBy...)
	return &cp
}

func (m *MemoryDB) GetPostMetrics(ctx context.Context, postID uuid.UUID) (*models.PostMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, exists := m.posts[postID]
	if !exists {
		return nil, utils.NewPostNotFoundError(postID.String())
	}
	return copyMetrics(post), nil
}

func (m *MemoryDB) GetPostAuthors(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	authors := make(map[uuid.UUID]uuid.UUID)
	for _, id := range postIDs {
		if post, exists := m.posts[id]; exists {
			authors[id] = post.AuthorID
		}
	}
	return authors, nil
}

func (m *MemoryDB) IncrementViewCount(ctx context.Context, postID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[postID]
	if !exists {
		return 0, utils.NewPostNotFoundError(postID.String())
	}
	post.ViewCount++
	return post.ViewCount, nil
}

func (m *MemoryDB) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.PostMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, exists := m.posts[postID]
	if !exists {
		return nil, utils.NewPostNotFoundError(postID.String())
	}

	liked := false
	for i, id := range post.LikedBy {
		if id == userID {
			post.LikedBy = append(post.LikedBy[:i], post.LikedBy[i+1:]...)
			liked = true
			break
		}
	}
	if !liked {
		post.LikedBy = append(post.LikedBy, userID)
	}
	post.LikeCount = len(post.LikedBy)

	return copyMetrics(post), nil
}

func (m *MemoryDB) AddBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookmarks[userID]; !exists {
		m.bookmarks[userID] = make(map[uuid.UUID]time.Time)
	}
	if _, exists := m.bookmarks[userID][postID]; exists {
		return utils.NewAppError(utils.ErrConflict,
			fmt.Sprintf("Post %s already bookmarked", postID.String()), nil)
	}
	m.bookmarks[userID][postID] = time.Now()
	return nil
}

func (m *MemoryDB) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.bookmarks[userID], postID)
	return nil
}

func (m *MemoryDB) GetUserBookmarks(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	postIDs := make([]uuid.UUID, 0, len(m.bookmarks[userID]))
	for postID := range m.bookmarks[userID] {
		postIDs = append(postIDs, postID)
	}
	return postIDs, nil
}

func (m *MemoryDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *MemoryDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	cp := *comment
	return &cp, nil
}

func (m *MemoryDB) GetCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}

	comments := make([]*models.Comment, 0)
	for _, comment := range m.comments {
		if wanted[comment.PostID] {
			cp := *comment
			comments = append(comments, &cp)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (m *MemoryDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.comments[id]; !exists {
		return utils.NewCommentNotFoundError(id.String())
	}
	delete(m.comments, id)
	return nil
}
