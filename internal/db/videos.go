package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/fazletdinov/vidstream/internal/model"
)

func (db *Postgres) EnsureVideoSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS videos (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			file TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			owner_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS videos_owner_id_idx ON videos(owner_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return wrap("ensure video schema", err)
		}
	}
	return nil
}

const videoColumns = `id, title, description, file, image, owner_id, created_at`

func (db *Postgres) CreateVideo(ctx context.Context, v *model.Video) (*model.Video, error) {
	query := `
		INSERT INTO videos (title, description, file, image, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + videoColumns
	var video model.Video
	err := db.Pool.QueryRow(ctx, query, v.Title, v.Description, v.File, v.Image, v.OwnerID).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.File,
		&video.Image,
		&video.OwnerID,
		&video.CreatedAt,
	)
	if err != nil {
		return nil, wrap("create video", err)
	}
	return &video, nil
}

func (db *Postgres) GetVideo(ctx context.Context, videoID int64) (*model.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE id = $1
	`
	var video model.Video
	err := db.Pool.QueryRow(ctx, query, videoID).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.File,
		&video.Image,
		&video.OwnerID,
		&video.CreatedAt,
	)
	if err != nil {
		return nil, wrap("get video", err)
	}
	return &video, nil
}

func (db *Postgres) ListVideos(ctx context.Context, limit, offset int) ([]model.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrap("list videos", err)
	}
	defer rows.Close()

	videos := make([]model.Video, 0)
	for rows.Next() {
		var video model.Video
		if err := rows.Scan(
			&video.ID,
			&video.Title,
			&video.Description,
			&video.File,
			&video.Image,
			&video.OwnerID,
			&video.CreatedAt,
		); err != nil {
			return nil, wrap("scan video", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list videos", err)
	}
	return videos, nil
}

func (db *Postgres) UpdateVideo(ctx context.Context, videoID int64, title, description *string) (*model.Video, error) {
	sets := make([]string, 0, 2)
	args := []any{videoID}

	if title != nil {
		args = append(args, *title)
		sets = append(sets, "title = $"+strconv.Itoa(len(args)))
	}
	if description != nil {
		args = append(args, *description)
		sets = append(sets, "description = $"+strconv.Itoa(len(args)))
	}

	query := `
		UPDATE videos
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + videoColumns

	var video model.Video
	err := db.Pool.QueryRow(ctx, query, args...).Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.File,
		&video.Image,
		&video.OwnerID,
		&video.CreatedAt,
	)
	if err != nil {
		return nil, wrap("update video", err)
	}
	return &video, nil
}

func (db *Postgres) DeleteVideo(ctx context.Context, videoID int64) (int64, error) {
	query := `
		DELETE FROM videos
		WHERE id = $1
		RETURNING id
	`
	var id int64
	if err := db.Pool.QueryRow(ctx, query, videoID).Scan(&id); err != nil {
		return 0, wrap("delete video", err)
	}
	return id, nil
}
