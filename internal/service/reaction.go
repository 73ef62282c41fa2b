package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fazletdinov/vidstream/internal/db"
	"github.com/fazletdinov/vidstream/internal/model"
)

type reactionStore interface {
	UpsertReaction(ctx context.Context, r *model.Reaction) (*model.Reaction, error)
	ListReactionsByVideo(ctx context.Context, videoID int64) ([]model.Reaction, error)
	DeleteReaction(ctx context.Context, videoID, userID int64) (uuid.UUID, error)
}

// ReactionService keeps one like/dislike per (user, video); setting a
// reaction again flips it.
type ReactionService struct {
	store  reactionStore
	videos videoGetter
}

func NewReactionService(store reactionStore, videos videoGetter) *ReactionService {
	return &ReactionService{store: store, videos: videos}
}

func (s *ReactionService) Set(ctx context.Context, user *model.User, videoID int64, kind model.ReactionKind) (*model.Reaction, error) {
	if !kind.Valid() {
		return nil, ErrInvalidInput
	}

	if _, err := s.videos.GetVideo(ctx, videoID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.store.UpsertReaction(ctx, &model.Reaction{
		ID:      uuid.New(),
		VideoID: videoID,
		UserID:  user.ID,
		Kind:    kind,
	})
}

func (s *ReactionService) ListByVideo(ctx context.Context, videoID int64) ([]model.Reaction, error) {
	return s.store.ListReactionsByVideo(ctx, videoID)
}

func (s *ReactionService) Delete(ctx context.Context, user *model.User, videoID int64) (uuid.UUID, error) {
	id, err := s.store.DeleteReaction(ctx, videoID, user.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}
