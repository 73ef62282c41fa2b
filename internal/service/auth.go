package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fazletdinov/vidstream/internal/config"
	"github.com/fazletdinov/vidstream/internal/db"
	"github.com/fazletdinov/vidstream/internal/model"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxEmailLength    = 100
)

type userStore interface {
	CreateUser(ctx context.Context, email string, passwordHash []byte) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	UpdateUser(ctx context.Context, userID int64, email *string, passwordHash []byte) (*model.User, error)
	DeactivateUser(ctx context.Context, userID int64) (int64, error)
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

// AuthService orchestrates registration, login, token refresh, profile
// updates, and soft deactivation. Tokens are stateless; nothing is stored
// server-side and invalidation is by expiry only.
type AuthService struct {
	store      userStore
	hasher     CredentialHasher
	codec      TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	cookieCfg  CookieConfig
}

func NewAuthService(store userStore, hasher CredentialHasher, codec TokenCodec, cfg config.TokenConfig) (*AuthService, error) {
	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil || accessTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid TOKEN_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil || refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid TOKEN_REFRESH_TTL", ErrMisconfigured)
	}

	if strings.TrimSpace(cfg.RefreshCookieName) == "" {
		return nil, fmt.Errorf("%w: TOKEN_REFRESH_COOKIE is required", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid TOKEN_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid TOKEN_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		store:      store,
		hasher:     hasher,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		cookieCfg: CookieConfig{
			Name:     cfg.RefreshCookieName,
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
			MaxAge:   int(refreshTTL.Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

// Register creates an identity with role=user, active=true. Fails with
// ErrAlreadyExists when an active identity already holds the email.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil && !db.IsNotFound(err) {
		return nil, err
	}
	if existing != nil && existing.IsActive {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, email, hash)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password are deliberately the same failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	return s.issuePair(user)
}

// Refresh mints a new token pair from a valid refresh token. The identity
// is re-resolved so a deactivated user cannot keep minting access tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, model.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	return s.issuePair(user)
}

// Update applies only the provided fields.
func (s *AuthService) Update(ctx context.Context, userID int64, req model.UpdateUserRequest) (*model.User, error) {
	if req.Email == nil && req.Password == nil {
		return nil, ErrEmptyUpdate
	}

	var email *string
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		if !validEmail(trimmed) {
			return nil, ErrInvalidInput
		}
		email = &trimmed
	}

	var hash []byte
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength || len(*req.Password) > maxPasswordLength {
			return nil, ErrInvalidInput
		}
		var err error
		hash, err = s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
	}

	user, err := s.store.UpdateUser(ctx, userID, email, hash)
	if err != nil {
		switch {
		case db.IsNotFound(err):
			return nil, ErrNotFound
		case db.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// Deactivate soft-deletes the identity. Idempotent: deactivating twice
// returns the same id both times.
func (s *AuthService) Deactivate(ctx context.Context, userID int64) (int64, error) {
	id, err := s.store.DeactivateUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// Current verifies an access token and loads the live identity. The active
// flag is checked against the store, not the claims: a still-valid token
// for a deactivated user resolves to nothing.
func (s *AuthService) Current(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.codec.Verify(accessToken, model.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AuthService) issuePair(user *model.User) (*TokenPair, error) {
	access, err := s.codec.Issue(user, model.TokenKindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(user, model.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func validateCredentials(email, password string) error {
	if !validEmail(email) {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrInvalidInput
	}
	return nil
}

func validEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, errors.New("invalid samesite")
	}
}
