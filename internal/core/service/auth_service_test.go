package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

type stubLimiter struct {
	max      int
	failures map[string]int
	err      error
}

func newStubLimiter(max int) *stubLimiter {
	return &stubLimiter{max: max, failures: make(map[string]int)}
}

func (l *stubLimiter) Blocked(_ context.Context, username string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[username] >= l.max, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, username string) error {
	if l.err != nil {
		return l.err
	}
	l.failures[username]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, username string) error {
	delete(l.failures, username)
	return l.err
}

func newTestAuth(limiter *stubLimiter) (*AuthService, *UserService) {
	repo := newStubUserRepo()
	hasher := testHasher()
	users := NewUserService(repo, hasher, discardLogger)
	if limiter == nil {
		return NewAuthService(repo, hasher, NewJWTIssuer("secret", time.Hour), nil, discardLogger), users
	}
	return NewAuthService(repo, hasher, NewJWTIssuer("secret", time.Hour), limiter, discardLogger), users
}

func TestAuthService_AliceScenario(t *testing.T) {
	auth, users := newTestAuth(nil)
	ctx := context.Background()

	created := mustCreate(t, users, aliceDraft())
	if created.Username != "alice1" || !created.IsActive {
		t.Fatalf("unexpected created entity: %+v", created)
	}

	wrong, err := auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "wrong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrong.StatusCode != http.StatusNotFound || wrong.Message != domain.MessageIncorrectCredentials {
		t.Fatalf("expected incorrect credentials, got %d %q", wrong.StatusCode, wrong.Message)
	}
	if wrong.Token != "" {
		t.Fatal("no token on failed login")
	}

	ok, err := auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "Abcdef1!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.StatusCode != http.StatusOK || ok.Token == "" {
		t.Fatalf("expected 200 with token, got %d %q", ok.StatusCode, ok.Token)
	}
	if ok.Entity != nil {
		t.Error("login must not return an entity")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(ok.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != created.ID {
		t.Errorf("expected userId %d, got %d", created.ID, claims.UserID)
	}
}

func TestAuthService_UnknownUserSameAsWrongPassword(t *testing.T) {
	auth, users := newTestAuth(nil)
	ctx := context.Background()
	mustCreate(t, users, aliceDraft())

	unknown, _ := auth.Login(ctx, domain.Credentials{Username: "ghost1", Password: "Abcdef1!"})
	wrong, _ := auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "Zbcdef1!"})

	if unknown.StatusCode != wrong.StatusCode || unknown.Message != wrong.Message {
		t.Fatalf("responses differ: %d %q vs %d %q", unknown.StatusCode, unknown.Message, wrong.StatusCode, wrong.Message)
	}
}

func TestAuthService_DeletedUserCannotLogin(t *testing.T) {
	auth, users := newTestAuth(nil)
	ctx := context.Background()
	u := mustCreate(t, users, aliceDraft())
	_, _ = users.Delete(ctx, u.ID)

	res, _ := auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "Abcdef1!"})
	if res.StatusCode != http.StatusNotFound || res.Message != domain.MessageIncorrectCredentials {
		t.Fatalf("expected incorrect credentials, got %d %q", res.StatusCode, res.Message)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	auth, _ := newTestAuth(nil)

	res, err := auth.Login(context.Background(), domain.Credentials{Username: "al"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if !res.HasKey("username-min-length") || !res.HasKey("password-is-not-empty") {
		t.Fatalf("unexpected keys %v", res.ResultKeys)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := newStubLimiter(2)
	auth, users := newTestAuth(limiter)
	ctx := context.Background()
	mustCreate(t, users, aliceDraft())

	for i := 0; i < 2; i++ {
		_, _ = auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "bad"})
	}

	res, _ := auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "Abcdef1!"})
	if res.StatusCode != http.StatusTooManyRequests || !res.HasKey(domain.KeyLoginAttemptsExceeded) {
		t.Fatalf("expected 429, got %d %v", res.StatusCode, res.ResultKeys)
	}
}

func TestAuthService_Login_SuccessResetsFailures(t *testing.T) {
	limiter := newStubLimiter(3)
	auth, users := newTestAuth(limiter)
	ctx := context.Background()
	mustCreate(t, users, aliceDraft())

	_, _ = auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "bad"})
	if limiter.failures["alice1"] != 1 {
		t.Fatalf("expected one failure recorded, got %d", limiter.failures["alice1"])
	}

	res, _ := auth.Login(ctx, domain.Credentials{Username: "alice1", Password: "Abcdef1!"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if _, ok := limiter.failures["alice1"]; ok {
		t.Error("successful login must reset the counter")
	}
}

func TestAuthService_Login_LimiterOutageFailsOpen(t *testing.T) {
	limiter := newStubLimiter(1)
	limiter.err = errors.New("redis down")
	auth, users := newTestAuth(limiter)
	mustCreate(t, users, aliceDraft())

	res, err := auth.Login(context.Background(), domain.Credentials{Username: "alice1", Password: "Abcdef1!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 despite limiter outage, got %d", res.StatusCode)
	}
}
