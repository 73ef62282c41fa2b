package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fazletdinov/vidstream/internal/db"
	"github.com/fazletdinov/vidstream/internal/model"
)

const maxCommentLength = 500

type commentStore interface {
	CreateComment(ctx context.Context, c *model.Comment) (*model.Comment, error)
	GetComment(ctx context.Context, commentID uuid.UUID) (*model.Comment, error)
	ListCommentsByVideo(ctx context.Context, videoID int64) ([]model.Comment, error)
	ListCommentsByUser(ctx context.Context, userID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) (uuid.UUID, error)
}

type videoGetter interface {
	GetVideo(ctx context.Context, videoID int64) (*model.Video, error)
}

// CommentService is the comment CRUD collaborator. Update and delete are
// owner-only; moderators may delete.
type CommentService struct {
	store  commentStore
	videos videoGetter
}

func NewCommentService(store commentStore, videos videoGetter) *CommentService {
	return &CommentService{store: store, videos: videos}
}

func (s *CommentService) Create(ctx context.Context, user *model.User, videoID int64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxCommentLength {
		return nil, ErrInvalidInput
	}

	if _, err := s.videos.GetVideo(ctx, videoID); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.store.CreateComment(ctx, &model.Comment{
		ID:      uuid.New(),
		VideoID: videoID,
		UserID:  user.ID,
		Text:    text,
	})
}

func (s *CommentService) Get(ctx context.Context, commentID uuid.UUID) (*model.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByVideo(ctx context.Context, videoID int64) ([]model.Comment, error) {
	return s.store.ListCommentsByVideo(ctx, videoID)
}

func (s *CommentService) ListByUser(ctx context.Context, userID int64) ([]model.Comment, error) {
	return s.store.ListCommentsByUser(ctx, userID)
}

func (s *CommentService) Update(ctx context.Context, user *model.User, commentID uuid.UUID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxCommentLength {
		return nil, ErrInvalidInput
	}

	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != user.ID {
		return nil, ErrForbidden
	}

	return s.store.UpdateComment(ctx, commentID, text)
}

func (s *CommentService) Delete(ctx context.Context, user *model.User, commentID uuid.UUID) (uuid.UUID, error) {
	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return uuid.Nil, err
	}
	if comment.UserID != user.ID && user.Role != model.RoleModerator && !user.IsSuperuser {
		return uuid.Nil, ErrForbidden
	}

	return s.store.DeleteComment(ctx, commentID)
}
