package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-api/internal/core/domain"
	"github.com/99minutos/accounts-api/internal/core/ports"
	"github.com/99minutos/accounts-api/internal/core/validation"
)

// AuthService implements login.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	limiter ports.LoginLimiter
	logger  zerolog.Logger
}

// NewAuthService wires the login flow. limiter may be nil to disable throttling.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	limiter ports.LoginLimiter,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
	}
}

// Login checks the credentials and issues a token. Unknown users and wrong
// passwords produce the same Result.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.Result, error) {
	if v := validation.ValidateLogin(creds); !v.Valid() {
		return domain.BadRequest("Validation failed while logging in", v.Violations...), nil
	}

	if s.blocked(ctx, creds.Username) {
		return &domain.Result{
			StatusCode: http.StatusTooManyRequests,
			Message:    domain.MessageTooManyLoginAttempts,
			ResultKeys: []string{domain.KeyLoginAttemptsExceeded},
		}, nil
	}

	user, err := s.users.FindByUsername(ctx, creds.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.incorrect(ctx, creds.Username), nil
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return s.incorrect(ctx, creds.Username), nil
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, creds.Username); err != nil {
			s.logger.Warn().Err(err).Str("username", creds.Username).Msg("failed to reset login attempts")
		}
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")

	return &domain.Result{
		StatusCode: http.StatusOK,
		Message:    "Successfully logged in!",
		Token:      token,
		ResultKeys: []string{domain.ResultOK},
	}, nil
}

// blocked fails open when the limiter errors.
func (s *AuthService) blocked(ctx context.Context, username string) bool {
	if s.limiter == nil {
		return false
	}
	blocked, err := s.limiter.Blocked(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login limiter check failed, continuing")
		return false
	}
	return blocked
}

func (s *AuthService) incorrect(ctx context.Context, username string) *domain.Result {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, username); err != nil {
			s.logger.Warn().Err(err).Str("username", username).Msg("failed to record login attempt")
		}
	}
	s.logger.Info().Str("username", username).Msg("login rejected")
	return domain.NotFound(domain.MessageIncorrectCredentials)
}
