package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/fazletdinov/vidstream/internal/model"
)

func (db *Postgres) EnsureReactionSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS reactions (
			id UUID PRIMARY KEY,
			video_id BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			kind SMALLINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (video_id, user_id)
		)
		`,
		`CREATE INDEX IF NOT EXISTS reactions_video_id_idx ON reactions(video_id)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return wrap("ensure reaction schema", err)
		}
	}
	return nil
}

const reactionColumns = `id, video_id, user_id, kind, created_at`

// UpsertReaction keeps one reaction per (video, user) pair; a repeat
// request just flips the kind.
func (db *Postgres) UpsertReaction(ctx context.Context, r *model.Reaction) (*model.Reaction, error) {
	query := `
		INSERT INTO reactions (id, video_id, user_id, kind)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (video_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
		RETURNING ` + reactionColumns
	var reaction model.Reaction
	err := db.Pool.QueryRow(ctx, query, r.ID, r.VideoID, r.UserID, r.Kind).Scan(
		&reaction.ID,
		&reaction.VideoID,
		&reaction.UserID,
		&reaction.Kind,
		&reaction.CreatedAt,
	)
	if err != nil {
		return nil, wrap("upsert reaction", err)
	}
	return &reaction, nil
}

func (db *Postgres) ListReactionsByVideo(ctx context.Context, videoID int64) ([]model.Reaction, error) {
	query := `
		SELECT ` + reactionColumns + `
		FROM reactions
		WHERE video_id = $1
		ORDER BY created_at
	`
	rows, err := db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, wrap("list reactions", err)
	}
	defer rows.Close()

	reactions := make([]model.Reaction, 0)
	for rows.Next() {
		var reaction model.Reaction
		if err := rows.Scan(
			&reaction.ID,
			&reaction.VideoID,
			&reaction.UserID,
			&reaction.Kind,
			&reaction.CreatedAt,
		); err != nil {
			return nil, wrap("scan reaction", err)
		}
		reactions = append(reactions, reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reactions", err)
	}
	return reactions, nil
}

func (db *Postgres) DeleteReaction(ctx context.Context, videoID, userID int64) (uuid.UUID, error) {
	query := `
		DELETE FROM reactions
		WHERE video_id = $1 AND user_id = $2
		RETURNING id
	`
	var id uuid.UUID
	if err := db.Pool.QueryRow(ctx, query, videoID, userID).Scan(&id); err != nil {
		return uuid.Nil, wrap("delete reaction", err)
	}
	return id, nil
}
