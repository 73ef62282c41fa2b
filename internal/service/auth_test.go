package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/fazletdinov/vidstream/internal/config"
	"github.com/fazletdinov/vidstream/internal/model"
)

type fakeUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, email string, hash []byte) (*model.User, error) {
	f.nextID++
	user := &model.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Role:         model.RoleUser,
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	var found *model.User
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			if user.IsActive {
				return user, nil
			}
			found = user
		}
	}
	if found != nil {
		return found, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) UpdateUser(_ context.Context, userID int64, email *string, hash []byte) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if email != nil {
		user.Email = *email
	}
	if hash != nil {
		user.PasswordHash = hash
	}
	return user, nil
}

func (f *fakeUserStore) DeactivateUser(_ context.Context, userID int64) (int64, error) {
	user, ok := f.users[userID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	user.IsActive = false
	return user.ID, nil
}

func testAuthService(t *testing.T) (*AuthService, *fakeUserStore, *RSATokenCodec) {
	t.Helper()

	store := newFakeUserStore()
	codec := testCodec(t)
	svc, err := NewAuthService(store, NewBcryptHasher(4), codec, config.TokenConfig{
		AccessTTL:         "15m",
		RefreshTTL:        "720h",
		RefreshCookieName: "vidstream_refresh",
	})
	if err != nil {
		t.Fatalf("NewAuthService error: %v", err)
	}
	return svc, store, codec
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, _, codec := testAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Email != "a@x.com" || user.Role != model.RoleUser || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	pair, err := svc.Login(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	claims, err := codec.Verify(pair.AccessToken, model.TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Role != model.RoleUser {
		t.Fatalf("expected role %q in access token, got %q", model.RoleUser, claims.Role)
	}
	if _, err := codec.Verify(pair.RefreshToken, model.TokenKindRefresh); err != nil {
		t.Fatalf("refresh token did not verify: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "password1"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	if _, err := svc.Register(ctx, "A@X.com", "password2"); err != ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()

	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// unknown email and wrong password are the same failure
	if _, err := svc.Login(ctx, "nobody@x.com", "password1"); err != ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "wrong-password"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Deactivate(ctx, user.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "password1"); err != ErrInactive {
		t.Fatalf("deactivated user: expected ErrInactive, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	svc, store, _ := testAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	oldHash := string(store.users[user.ID].PasswordHash)

	if _, err := svc.Update(ctx, user.ID, model.UpdateUserRequest{}); err != ErrEmptyUpdate {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}

	email := "b@x.com"
	updated, err := svc.Update(ctx, user.ID, model.UpdateUserRequest{Email: &email})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Email != "b@x.com" {
		t.Fatalf("email not updated: %q", updated.Email)
	}
	if string(store.users[user.ID].PasswordHash) != oldHash {
		t.Fatalf("password hash changed on email-only update")
	}
}

func TestDeactivateIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	first, err := svc.Deactivate(ctx, user.ID)
	if err != nil {
		t.Fatalf("first Deactivate error: %v", err)
	}
	second, err := svc.Deactivate(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Deactivate error: %v", err)
	}
	if first != second || first != user.ID {
		t.Fatalf("expected same id both times, got %d and %d", first, second)
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	pair, err := svc.Login(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	current, err := svc.Current(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if current.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, current.ID)
	}

	// refresh token must not pass where an access token is required
	if _, err := svc.Current(ctx, pair.RefreshToken); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// deactivation wins over a still-valid token
	if _, err := svc.Deactivate(ctx, user.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if _, err := svc.Current(ctx, pair.AccessToken); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for deactivated user, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	svc, _, codec := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "password1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	pair, err := svc.Login(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if _, err := codec.Verify(fresh.AccessToken, model.TokenKindAccess); err != nil {
		t.Fatalf("minted access token did not verify: %v", err)
	}

	// an access token is not a refresh token
	if _, err := svc.Refresh(ctx, pair.AccessToken); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
