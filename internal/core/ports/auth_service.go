package ports

import (
	"context"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Result, error)
}

// TokenClaims is what a verified bearer token tells us about its holder.
type TokenClaims struct {
	UserID int64
}

// TokenIssuer signs and verifies bearer tokens with a shared secret.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Parse(token string) (*TokenClaims, error)
}

// LoginLimiter throttles repeated failed logins for a username.
type LoginLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
