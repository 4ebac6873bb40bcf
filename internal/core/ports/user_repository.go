package ports

import (
	"context"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// UserRepository persists users. Every lookup and write ignores
// soft-deleted rows and reports them as domain.ErrUserNotFound.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Update applies changes to a live row and returns the refreshed user.
	Update(ctx context.Context, id int64, changes domain.UserChanges) (*domain.User, error)
	// ToggleActive flips is_active in a single statement and returns the refreshed user.
	ToggleActive(ctx context.Context, id int64) (*domain.User, error)
	SoftDelete(ctx context.Context, id int64) error
}

// RoleRepository reads roles and seeds the defaults.
type RoleRepository interface {
	FindAll(ctx context.Context) ([]domain.Role, error)
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	EnsureDefaults(ctx context.Context) error
}
