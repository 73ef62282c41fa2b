package service

import (
	"crypto/rsa"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fazletdinov/vidstream/internal/model"
)

// TokenCodec signs and verifies kind-tagged claims. Verification enforces
// signature, expiry, and that the token was issued as the requested kind.
type TokenCodec interface {
	Issue(user *model.User, kind model.TokenKind, ttl time.Duration) (string, error)
	Verify(token string, kind model.TokenKind) (*model.TokenClaims, error)
}

type signedClaims struct {
	Email     string          `json:"email"`
	Role      model.Role      `json:"role"`
	TokenType model.TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// RSATokenCodec signs with an RS256 private key and verifies with the
// matching public key. Keys are loaded once at construction.
type RSATokenCodec struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

func NewRSATokenCodec(privatePEM, publicPEM []byte) (*RSATokenCodec, error) {
	private, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, errors.Join(ErrMisconfigured, err)
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, errors.Join(ErrMisconfigured, err)
	}
	return &RSATokenCodec{private: private, public: public}, nil
}

func (c *RSATokenCodec) Issue(user *model.User, kind model.TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := signedClaims{
		Email:     user.Email,
		Role:      user.Role,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(c.private)
}

func (c *RSATokenCodec) Verify(tokenStr string, kind model.TokenKind) (*model.TokenClaims, error) {
	claims := &signedClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return c.public, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != kind {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	out := &model.TokenClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
		Kind:   claims.TokenType,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
