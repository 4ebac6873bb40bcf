package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	token, _ := NewJWTIssuer("secret", time.Hour).Issue(1)

	if _, err := NewJWTIssuer("other", time.Hour).Parse(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _ := issuer.Issue(1)
	if _, err := issuer.Parse(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTIssuer_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWTIssuer("secret", time.Hour).Parse(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := testHasher()

	a, err := h.Hash("Abcdef1!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, _ := h.Hash("Abcdef1!")
	if a == b {
		t.Error("equal plaintexts must produce different hashes")
	}
	if !h.Verify("Abcdef1!", a) {
		t.Error("hash must verify against its plaintext")
	}
	if h.Verify("Abcdef1?", a) {
		t.Error("hash must not verify against another plaintext")
	}
}

func TestNewBcryptHasher_DefaultsCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != 10 {
		t.Fatalf("expected default cost 10, got %d", h.cost)
	}
}
