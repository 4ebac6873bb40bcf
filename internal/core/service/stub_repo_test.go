package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	rows    map[int64]*domain.User
	nextID  int64
	roles   map[int64]bool
	saveErr error // if set, Save returns this error
	saves   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		rows:  make(map[int64]*domain.User),
		roles: map[int64]bool{1: true, 2: true},
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Email != nil {
		e := *u.Email
		clone.Email = &e
	}
	return &clone
}

func (r *stubUserRepo) live(id int64) (*domain.User, bool) {
	u, ok := r.rows[id]
	if !ok || u.DeletedAt != nil {
		return nil, false
	}
	return u, true
}

// conflict mirrors the partial unique indexes of the real stores.
func (r *stubUserRepo) conflict(selfID int64, username string, email *string) error {
	for _, u := range r.rows {
		if u.DeletedAt != nil || u.ID == selfID {
			continue
		}
		if u.Username == username {
			return &domain.ConflictError{Field: "username"}
		}
		if email != nil && u.Email != nil && *u.Email == *email {
			return &domain.ConflictError{Field: "email"}
		}
	}
	return nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if !r.roles[user.RoleID] {
		return nil, domain.ErrRoleNotFound
	}
	if err := r.conflict(0, user.Username, user.Email); err != nil {
		return nil, err
	}
	r.nextID++
	row := cloneUser(user)
	row.ID = r.nextID
	row.CreatedAt = time.Now().UTC()
	row.UpdatedAt = row.CreatedAt
	r.rows[row.ID] = row
	r.saves++
	return cloneUser(row), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.DeletedAt == nil && u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.rows {
		if u.DeletedAt == nil {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, c domain.UserChanges) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if c.Email != nil {
		if err := r.conflict(id, "", c.Email); err != nil {
			return nil, err
		}
		e := *c.Email
		u.Email = &e
	}
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) ToggleActive(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = !u.IsActive
	return cloneUser(u), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.live(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func testHasher() *BcryptHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func aliceDraft() domain.UserDraft {
	return domain.UserDraft{
		Username:        "alice1",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
		FirstName:       "A",
		LastName:        "B",
		RoleID:          1,
	}
}
