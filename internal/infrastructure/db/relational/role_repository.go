package relational

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// defaultRoles are seeded in this order, so "admin" gets id 1 on a fresh database.
var defaultRoles = []string{domain.RoleAdmin, domain.RoleUser}

// RoleRepository implements ports.RoleRepository with gorm.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	var recs []roleRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	roles := make([]domain.Role, len(recs))
	for i, rec := range recs {
		roles[i] = domain.Role{ID: rec.ID, Label: rec.Label}
	}
	return roles, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	var rec roleRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role %d: %w", id, err)
	}
	return &domain.Role{ID: rec.ID, Label: rec.Label}, nil
}

// EnsureDefaults creates the default roles that do not exist yet. Safe to
// run on every start.
func (r *RoleRepository) EnsureDefaults(ctx context.Context) error {
	for _, label := range defaultRoles {
		var rec roleRecord
		if err := r.db.WithContext(ctx).Where(roleRecord{Label: label}).FirstOrCreate(&rec).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", label, err)
		}
	}
	return nil
}
