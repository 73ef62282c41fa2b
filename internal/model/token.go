package model

import "time"

// TokenKind distinguishes access tokens from refresh tokens. The kind is
// signed into the claims, so a refresh token can never pass where an
// access token is required.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the decoded, already-verified payload of a token.
type TokenClaims struct {
	UserID    int64
	Email     string
	Role      Role
	Kind      TokenKind
	ExpiresAt time.Time
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
