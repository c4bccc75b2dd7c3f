// internal/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"devlog-engagement/internal/models"
	"devlog-engagement/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL!")

	return &PostgresDB{DB: db}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close(ctx context.Context) error {
	log.Println("Closing PostgreSQL connection...")
	return p.DB.Close()
}

// InitializeTables creates all necessary tables if they don't exist.
// The posts table belongs to the publishing side; only the engagement
// columns are assumed here.
func (p *PostgresDB) InitializeTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		author_id UUID NOT NULL,
		view_count INTEGER NOT NULL DEFAULT 0 CHECK (view_count >= 0),
		like_count INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0)
	);

	CREATE TABLE IF NOT EXISTS post_likes (
		post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (post_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		user_id UUID NOT NULL,
		post_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, post_id)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		post_id UUID NOT NULL,
		parent_id UUID,
		author_id UUID NOT NULL,
		author_name TEXT NOT NULL,
		content TEXT NOT NULL,
		visibility TEXT NOT NULL DEFAULT 'public',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments (post_id, created_at);
	`

	if _, err := p.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize tables: %v", err)
	}
	return nil
}

// postRow maps the engagement columns of the posts table.
type postRow struct {
	ID        string `db:"id"`
	AuthorID  string `db:"author_id"`
	ViewCount int    `db:"view_count"`
	LikeCount int    `db:"like_count"`
}

// GetPostMetrics retrieves the engagement snapshot for a post.
func (p *PostgresDB) GetPostMetrics(ctx context.Context, postID uuid.UUID) (*models.PostMetrics, error) {
	var row postRow
	err := p.DB.GetContext(ctx, &row,
		`SELECT id, author_id, view_count, like_count FROM posts WHERE id = $1`, postID)
	if err == sql.ErrNoRows {
		return nil, utils.NewPostNotFoundError(postID.String())
	}
	if err != nil {
		return nil, utils.NewTransientIOError("get post metrics", err)
	}

	metrics, err := rowToMetrics(&row)
	if err != nil {
		return nil, err
	}

	if err := p.loadLikedBy(ctx, metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func rowToMetrics(row *postRow) (*models.PostMetrics, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}
	authorID, err := uuid.Parse(row.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}
	return &models.PostMetrics{
		ID:        id,
		AuthorID:  authorID,
		ViewCount: row.ViewCount,
		LikeCount: row.LikeCount,
		LikedBy:   make([]uuid.UUID, 0),
	}, nil
}

func (p *PostgresDB) loadLikedBy(ctx context.Context, metrics *models.PostMetrics) error {
	var userIDs []string
	err := p.DB.SelectContext(ctx, &userIDs,
		`SELECT user_id FROM post_likes WHERE post_id = $1`, metrics.ID)
	if err != nil {
		return utils.NewTransientIOError("load like set", err)
	}
	for _, raw := range userIDs {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid user ID in like set: %v", err)
		}
		metrics.LikedBy = append(metrics.LikedBy, userID)
	}
	return nil
}

// GetPostAuthors returns the author of each existing post in postIDs.
func (p *PostgresDB) GetPostAuthors(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}

	var rows []postRow
	err := p.DB.SelectContext(ctx, &rows,
		`SELECT id, author_id, view_count, like_count FROM posts WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, utils.NewTransientIOError("get post authors", err)
	}

	authors := make(map[uuid.UUID]uuid.UUID)
	for _, row := range rows {
		postID, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID: %v", err)
		}
		authorID, err := uuid.Parse(row.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("invalid author ID: %v", err)
		}
		authors[postID] = authorID
	}
	return authors, nil
}

// IncrementViewCount bumps the counter atomically in a single UPDATE and
// returns the new value.
func (p *PostgresDB) IncrementViewCount(ctx context.Context, postID uuid.UUID) (int, error) {
	var viewCount int
	err := p.DB.GetContext(ctx, &viewCount,
		`UPDATE posts SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`,
		postID)
	if err == sql.ErrNoRows {
		return 0, utils.NewPostNotFoundError(postID.String())
	}
	if err != nil {
		return 0, utils.NewTransientIOError("increment view count", err)
	}
	return viewCount, nil
}

// ToggleLike flips the membership row and recomputes like_count from the
// membership table inside one transaction, so the counter can never drift
// from the set.
func (p *PostgresDB) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.PostMetrics, error) {
	tx, err := p.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}
	if !exists {
		return nil, utils.NewPostNotFoundError(postID.String())
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}

	if removed == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			 ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
		if err != nil {
			return nil, utils.NewTransientIOError("toggle like", err)
		}
	}

	var row postRow
	err = tx.GetContext(ctx, &row,
		`UPDATE posts
		 SET like_count = (SELECT COUNT(*) FROM post_likes WHERE post_id = $1)
		 WHERE id = $1
		 RETURNING id, author_id, view_count, like_count`, postID)
	if err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}

	var userIDs []string
	err = tx.SelectContext(ctx, &userIDs,
		`SELECT user_id FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, utils.NewTransientIOError("toggle like", err)
	}

	metrics, err := rowToMetrics(&row)
	if err != nil {
		return nil, err
	}
	for _, raw := range userIDs {
		uid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in like set: %v", err)
		}
		metrics.LikedBy = append(metrics.LikedBy, uid)
	}
	return metrics, nil
}

// AddBookmark inserts the pair; the primary key turns a duplicate into a
// pq unique_violation, surfaced as CONFLICT.
func (p *PostgresDB) AddBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2)`, userID, postID)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return utils.NewAppError(utils.ErrConflict,
			fmt.Sprintf("Post %s already bookmarked", postID.String()), err)
	}
	if err != nil {
		return utils.NewTransientIOError("add bookmark", err)
	}
	return nil
}

// RemoveBookmark deletes the pair; absent pairs are a no-op.
func (p *PostgresDB) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := p.DB.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return utils.NewTransientIOError("remove bookmark", err)
	}
	return nil
}

// GetUserBookmarks returns the post IDs the user has saved.
func (p *PostgresDB) GetUserBookmarks(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	err := p.DB.SelectContext(ctx, &raw,
		`SELECT post_id FROM bookmarks WHERE user_id = $1`, userID)
	if err != nil {
		return nil, utils.NewTransientIOError("list bookmarks", err)
	}

	postIDs := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		postID, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID in bookmark: %v", err)
		}
		postIDs = append(postIDs, postID)
	}
	return postIDs, nil
}

// commentRow maps the comments table.
type commentRow struct {
	ID         string         `db:"id"`
	PostID     string         `db:"post_id"`
	ParentID   sql.NullString `db:"parent_id"`
	AuthorID   string         `db:"author_id"`
	AuthorName string         `db:"author_name"`
	Content    string         `db:"content"`
	Visibility string         `db:"visibility"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func commentRowToModel(row *commentRow) (*models.Comment, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}
	postID, err := uuid.Parse(row.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}
	authorID, err := uuid.Parse(row.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	comment := &models.Comment{
		ID:         id,
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: row.AuthorName,
		Content:    row.Content,
		Visibility: models.Visibility(row.Visibility),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}

	if row.ParentID.Valid {
		parentID, err := uuid.Parse(row.ParentID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID: %v", err)
		}
		comment.ParentID = &parentID
	}
	return comment, nil
}

// SaveComment creates or updates a comment.
func (p *PostgresDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	var parentID interface{}
	if comment.ParentID != nil {
		parentID = comment.ParentID.String()
	}

	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, parent_id, author_id, author_name, content, visibility, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`,
		comment.ID, comment.PostID, parentID, comment.AuthorID, comment.AuthorName,
		comment.Content, string(comment.Visibility), comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return utils.NewTransientIOError("save comment", err)
	}
	return nil
}

// GetComment retrieves a comment by ID.
func (p *PostgresDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var row commentRow
	err := p.DB.GetContext(ctx, &row, `SELECT * FROM comments WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	if err != nil {
		return nil, utils.NewTransientIOError("get comment", err)
	}
	return commentRowToModel(&row)
}

// GetCommentsForPosts retrieves every comment on the given posts, flat,
// ordered by creation time ascending.
func (p *PostgresDB) GetCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) ([]*models.Comment, error) {
	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}

	var rows []commentRow
	err := p.DB.SelectContext(ctx, &rows,
		`SELECT * FROM comments WHERE post_id = ANY($1) ORDER BY created_at ASC`,
		pq.Array(ids))
	if err != nil {
		return nil, utils.NewTransientIOError("list comments", err)
	}

	comments := make([]*models.Comment, 0, len(rows))
	for i := range rows {
		comment, err := commentRowToModel(&rows[i])
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// DeleteComment removes a comment; replies keep their parent_id (no cascade).
func (p *PostgresDB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := p.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return utils.NewTransientIOError("delete comment", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return utils.NewTransientIOError("delete comment", err)
	}
	if affected == 0 {
		return utils.NewCommentNotFoundError(id.String())
	}
	return nil
}
