package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fazletdinov/vidstream/internal/model"
)

type fakeCommentStore struct {
	comments map[uuid.UUID]*model.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[uuid.UUID]*model.Comment)}
}

func (f *fakeCommentStore) CreateComment(_ context.Context, c *model.Comment) (*model.Comment, error) {
	stored := *c
	f.comments[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeCommentStore) GetComment(_ context.Context, commentID uuid.UUID) (*model.Comment, error) {
	if c, ok := f.comments[commentID]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCommentStore) ListCommentsByVideo(_ context.Context, videoID int64) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, c := range f.comments {
		if c.VideoID == videoID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) ListCommentsByUser(_ context.Context, userID int64) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, c := range f.comments {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentStore) UpdateComment(_ context.Context, commentID uuid.UUID, text string) (*model.Comment, error) {
	c, ok := f.comments[commentID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c.Text = text
	return c, nil
}

func (f *fakeCommentStore) DeleteComment(_ context.Context, commentID uuid.UUID) (uuid.UUID, error) {
	if _, ok := f.comments[commentID]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(f.comments, commentID)
	return commentID, nil
}

func TestCommentOwnership(t *testing.T) {
	t.Parallel()

	videos := newFakeVideoStore()
	videos.videos[1] = &model.Video{ID: 1}
	svc := NewCommentService(newFakeCommentStore(), videos)
	ctx := context.Background()

	author := &model.User{ID: 1, IsActive: true, Role: model.RoleUser}
	stranger := &model.User{ID: 2, IsActive: true, Role: model.RoleUser}
	moderator := &model.User{ID: 3, IsActive: true, Role: model.RoleModerator}

	comment, err := svc.Create(ctx, author, 1, "nice clip")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.Update(ctx, stranger, comment.ID, "edited"); err != ErrForbidden {
		t.Fatalf("stranger update: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, author, comment.ID, "edited"); err != nil {
		t.Fatalf("author update error: %v", err)
	}

	if _, err := svc.Delete(ctx, stranger, comment.ID); err != ErrForbidden {
		t.Fatalf("stranger delete: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Delete(ctx, moderator, comment.ID); err != nil {
		t.Fatalf("moderator delete error: %v", err)
	}
}

func TestCommentOnMissingVideo(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(newFakeCommentStore(), newFakeVideoStore())
	author := &model.User{ID: 1, IsActive: true}

	if _, err := svc.Create(context.Background(), author, 999, "hello"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReactionFlip(t *testing.T) {
	t.Parallel()

	videos := newFakeVideoStore()
	videos.videos[1] = &model.Video{ID: 1}
	svc := NewReactionService(newFakeReactionStore(), videos)
	ctx := context.Background()
	user := &model.User{ID: 1, IsActive: true}

	first, err := svc.Set(ctx, user, 1, model.ReactionLike)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if first.Kind != model.ReactionLike {
		t.Fatalf("expected like, got %v", first.Kind)
	}
	second, err := svc.Set(ctx, user, 1, model.ReactionDislike)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if second.Kind != model.ReactionDislike {
		t.Fatalf("expected kind to flip, got %v", second.Kind)
	}

	reactions, err := svc.ListByVideo(ctx, 1)
	if err != nil {
		t.Fatalf("ListByVideo error: %v", err)
	}
	if len(reactions) != 1 {
		t.Fatalf("expected one reaction per (user, video), got %d", len(reactions))
	}

	if _, err := svc.Set(ctx, user, 1, model.ReactionKind(9)); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for bad kind, got %v", err)
	}
}

type fakeReactionStore struct {
	reactions map[[2]int64]*model.Reaction
}

func newFakeReactionStore() *fakeReactionStore {
	return &fakeReactionStore{reactions: make(map[[2]int64]*model.Reaction)}
}

func (f *fakeReactionStore) UpsertReaction(_ context.Context, r *model.Reaction) (*model.Reaction, error) {
	key := [2]int64{r.VideoID, r.UserID}
	if existing, ok := f.reactions[key]; ok {
		existing.Kind = r.Kind
		return existing, nil
	}
	stored := *r
	f.reactions[key] = &stored
	return &stored, nil
}

func (f *fakeReactionStore) ListReactionsByVideo(_ context.Context, videoID int64) ([]model.Reaction, error) {
	out := make([]model.Reaction, 0)
	for _, r := range f.reactions {
		if r.VideoID == videoID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReactionStore) DeleteReaction(_ context.Context, videoID, userID int64) (uuid.UUID, error) {
	key := [2]int64{videoID, userID}
	r, ok := f.reactions[key]
	if !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(f.reactions, key)
	return r.ID, nil
}
