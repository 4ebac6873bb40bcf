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

// UserService implements the user lifecycle on top of a UserRepository.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, logger: logger}
}

// Create validates the draft, hashes the password and stores an active user.
func (s *UserService) Create(ctx context.Context, draft domain.UserDraft) (*domain.Result, error) {
	if v := validation.ValidateCreate(draft); !v.Valid() {
		return domain.BadRequest("Validation failed while creating user", v.Violations...), nil
	}
	if r := confirmationFailure(draft.Password, draft.ConfirmPassword, draft.Email, draft.ConfirmEmail); r != nil {
		return r, nil
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := &domain.User{
		Username:     draft.Username,
		FirstName:    draft.FirstName,
		LastName:     draft.LastName,
		Email:        optional(draft.Email),
		PasswordHash: hash,
		IsActive:     true,
		RoleID:       draft.RoleID,
	}

	created, err := s.users.Save(ctx, user)
	if err != nil {
		if r := writeFailure(err); r != nil {
			s.logger.Info().Err(err).Str("username", draft.Username).Msg("user not created")
			return r, nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user created")

	return &domain.Result{
		StatusCode: http.StatusCreated,
		Message:    "User created!",
		Entity:     created,
		ResultKeys: []string{domain.ResultOK},
	}, nil
}

// Find returns every live user.
func (s *UserService) Find(ctx context.Context) (*domain.Result, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return &domain.Result{
		StatusCode: http.StatusOK,
		Message:    "Users found",
		Entities:   users,
		ResultKeys: []string{domain.ResultOK},
	}, nil
}

func (s *UserService) FindOneByID(ctx context.Context, id int64) (*domain.Result, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NotFound("User not found"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &domain.Result{
		StatusCode: http.StatusOK,
		Message:    "User found",
		Entity:     user,
		ResultKeys: []string{domain.ResultOK},
	}, nil
}

// Update writes the supplied fields of patch. The username is never
// written; supplying one adds a warning key to an otherwise normal update.
func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.Result, error) {
	current, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NotFound("User not found"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	v := validation.ValidateUpdate(patch)
	if !v.Valid() {
		return domain.BadRequest("Validation failed while updating user", v.Violations...), nil
	}
	if r := confirmationFailure(patch.Password, patch.ConfirmPassword, patch.Email, patch.ConfirmEmail); r != nil {
		return r, nil
	}

	var changes domain.UserChanges
	if patch.FirstName != "" {
		changes.FirstName = &patch.FirstName
	}
	if patch.LastName != "" {
		changes.LastName = &patch.LastName
	}
	if patch.Email != "" {
		changes.Email = &patch.Email
	}
	if patch.Password != "" {
		hash, err := s.hasher.Hash(patch.Password)
		if err != nil {
			return nil, fmt.Errorf("update user %d: %w", id, err)
		}
		changes.PasswordHash = &hash
	}

	if patch.Username != "" && patch.Username != current.Username {
		s.logger.Warn().Int64("user_id", id).Str("username", current.Username).Msg("username change attempt ignored")
	}

	updated := current
	if !changes.Empty() {
		updated, err = s.users.Update(ctx, id, changes)
		if err != nil {
			if r := writeFailure(err); r != nil {
				return r, nil
			}
			return nil, fmt.Errorf("update user %d: %w", id, err)
		}
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")

	return &domain.Result{
		StatusCode: http.StatusOK,
		Message:    "User updated!",
		Entity:     updated,
		ResultKeys: append([]string{domain.ResultOK}, v.Warnings...),
	}, nil
}

// ChangeUserState flips isActive.
func (s *UserService) ChangeUserState(ctx context.Context, id int64) (*domain.Result, error) {
	user, err := s.users.ToggleActive(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NotFound("User not found"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("change state of user %d: %w", id, err)
	}

	s.logger.Info().Int64("user_id", id).Bool("is_active", user.IsActive).Msg("user state changed")

	return &domain.Result{
		StatusCode: http.StatusOK,
		Message:    "User is now " + user.StateLabel(),
		Entity:     user,
		ResultKeys: []string{domain.ResultOK},
	}, nil
}

// Delete soft-deletes the user.
func (s *UserService) Delete(ctx context.Context, id int64) (*domain.Result, error) {
	err := s.users.SoftDelete(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NotFound("User not found"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")

	return &domain.Result{
		StatusCode: http.StatusOK,
		Message:    "User deleted!",
		ResultKeys: []string{domain.ResultOK},
	}, nil
}

// confirmationFailure re-checks the cross-field rules right before a write.
func confirmationFailure(password, confirmPassword, email, confirmEmail string) *domain.Result {
	if password != confirmPassword {
		return domain.BadRequest("The password does not match, please try again.", domain.KeyPasswordNotMatch)
	}
	if email != "" && email != confirmEmail {
		return domain.BadRequest("The email does not match, please try again.", domain.KeyEmailNotMatch)
	}
	return nil
}

// writeFailure maps repository errors that are business outcomes to a
// Result. Anything else returns nil and must be treated as unexpected.
func writeFailure(err error) *domain.Result {
	var ce *domain.ConflictError
	switch {
	case errors.As(err, &ce):
		key := domain.KeyUserAlreadyExists
		if ce.Field != "" {
			key = ce.Field + "-already-exists"
		}
		return domain.Conflict("The "+ce.Error()+", please choose another one.", key)
	case errors.Is(err, domain.ErrRoleNotFound):
		return domain.BadRequest("The role does not exist.", domain.KeyRoleNotFound)
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.NotFound("User not found")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
