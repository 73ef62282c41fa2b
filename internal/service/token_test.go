package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/fazletdinov/vidstream/internal/model"
)

func testCodec(t *testing.T) *RSATokenCodec {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey error: %v", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	codec, err := NewRSATokenCodec(privatePEM, publicPEM)
	if err != nil {
		t.Fatalf("NewRSATokenCodec error: %v", err)
	}
	return codec
}

func testUser() *model.User {
	return &model.User{
		ID:       42,
		Email:    "a@x.com",
		IsActive: true,
		Role:     model.RoleUser,
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	codec := testCodec(t)
	token, err := codec.Issue(testUser(), model.TokenKindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := codec.Verify(token, model.TokenKindAccess)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@x.com" || claims.Role != model.RoleUser {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Kind != model.TokenKindAccess {
		t.Fatalf("expected access kind, got %q", claims.Kind)
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	codec := testCodec(t)
	token, err := codec.Issue(testUser(), model.TokenKindAccess, -time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := codec.Verify(token, model.TokenKindAccess); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyKindMismatch(t *testing.T) {
	t.Parallel()

	codec := testCodec(t)
	access, err := codec.Issue(testUser(), model.TokenKindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	refresh, err := codec.Issue(testUser(), model.TokenKindRefresh, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := codec.Verify(access, model.TokenKindRefresh); err != ErrInvalidToken {
		t.Fatalf("access token as refresh: expected ErrInvalidToken, got %v", err)
	}
	if _, err := codec.Verify(refresh, model.TokenKindAccess); err != ErrInvalidToken {
		t.Fatalf("refresh token as access: expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	t.Parallel()

	token, err := testCodec(t).Issue(testUser(), model.TokenKindAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other := testCodec(t)
	if _, err := other.Verify(token, model.TokenKindAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	codec := testCodec(t)
	if _, err := codec.Verify("not.a.jwt", model.TokenKindAccess); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
