package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/fazletdinov/vidstream/internal/model"
)

func (db *Postgres) EnsureCommentSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			video_id BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS comments_video_id_idx ON comments(video_id)`,
		`CREATE INDEX IF NOT EXISTS comments_user_id_idx ON comments(user_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return wrap("ensure comment schema", err)
		}
	}
	return nil
}

const commentColumns = `id, video_id, user_id, text, created_at, updated_at`

func (db *Postgres) CreateComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	query := `
		INSERT INTO comments (id, video_id, user_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, c.ID, c.VideoID, c.UserID, c.Text).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("create comment", err)
	}
	return &comment, nil
}

func (db *Postgres) GetComment(ctx context.Context, commentID uuid.UUID) (*model.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("get comment", err)
	}
	return &comment, nil
}

func (db *Postgres) ListCommentsByVideo(ctx context.Context, videoID int64) ([]model.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE video_id = $1
		ORDER BY created_at
	`
	return db.listComments(ctx, query, videoID)
}

func (db *Postgres) ListCommentsByUser(ctx context.Context, userID int64) ([]model.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE user_id = $1
		ORDER BY created_at
	`
	return db.listComments(ctx, query, userID)
}

func (db *Postgres) listComments(ctx context.Context, query string, arg any) ([]model.Comment, error) {
	rows, err := db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.UserID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, wrap("scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list comments", err)
	}
	return comments, nil
}

func (db *Postgres) UpdateComment(ctx context.Context, commentID uuid.UUID, text string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET text = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns
	var comment model.Comment
	err := db.Pool.QueryRow(ctx, query, commentID, text).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("update comment", err)
	}
	return &comment, nil
}

func (db *Postgres) DeleteComment(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	query := `
		DELETE FROM comments
		WHERE id = $1
		RETURNING id
	`
	var id uuid.UUID
	if err := db.Pool.QueryRow(ctx, query, commentID).Scan(&id); err != nil {
		return uuid.Nil, wrap("delete comment", err)
	}
	return id, nil
}
