package ports

import (
	"context"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// UserService runs the user lifecycle. Business failures come back as a
// Result with a 4xx status; the error return is for unexpected faults only.
type UserService interface {
	Create(ctx context.Context, draft domain.UserDraft) (*domain.Result, error)
	Find(ctx context.Context) (*domain.Result, error)
	FindOneByID(ctx context.Context, id int64) (*domain.Result, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.Result, error)
	ChangeUserState(ctx context.Context, id int64) (*domain.Result, error)
	Delete(ctx context.Context, id int64) (*domain.Result, error)
}

// PasswordHasher is the only place plaintext passwords are compared.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
