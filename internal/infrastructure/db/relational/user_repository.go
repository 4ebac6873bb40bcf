package relational

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository with gorm.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := fromDomain(user)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("save user %s: %w", user.Username, translateError(err))
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users := make([]*domain.User, len(recs))
	for i := range recs {
		users[i] = recs[i].toDomain()
	}
	return users, nil
}

// Update writes the non-nil fields of changes to a live row and reads it
// back in the same transaction.
func (r *UserRepository) Update(ctx context.Context, id int64, changes domain.UserChanges) (*domain.User, error) {
	updates := map[string]any{}
	if changes.FirstName != nil {
		updates["first_name"] = *changes.FirstName
	}
	if changes.LastName != nil {
		updates["last_name"] = *changes.LastName
	}
	if changes.Email != nil {
		updates["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		updates["password"] = *changes.PasswordHash
	}
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		u, err := r.first(tx.Where("id = ?", id))
		out = u
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return out, nil
}

// ToggleActive flips is_active with a single conditional UPDATE so two
// concurrent toggles never collapse into one.
func (r *UserRepository) ToggleActive(ctx context.Context, id int64) (*domain.User, error) {
	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{}).Where("id = ?", id).Update("is_active", gorm.Expr("NOT is_active"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		u, err := r.first(tx.Where("id = ?", id))
		out = u
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("toggle user %d: %w", id, err)
	}
	return out, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) first(q *gorm.DB) (*domain.User, error) {
	var rec userRecord
	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}
