package relational

import (
	"time"

	"gorm.io/gorm"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// Model holds the columns every table shares. DeletedAt turns gorm's soft
// delete on: lookups, updates and deletes skip rows where it is set.
type Model struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type roleRecord struct {
	Model
	Label string `gorm:"size:50;not null;uniqueIndex"`
}

func (roleRecord) TableName() string {
	return "roles"
}

// Username and email are unique among live rows only, so a soft-deleted
// account frees its username.
type userRecord struct {
	Model
	Username  string     `gorm:"size:20;not null;uniqueIndex:idx_users_username_live,where:deleted_at IS NULL"`
	FirstName string     `gorm:"size:50;not null"`
	LastName  string     `gorm:"size:50;not null"`
	Email     *string    `gorm:"size:255;uniqueIndex:idx_users_email_live,where:deleted_at IS NULL"`
	Password  string     `gorm:"not null"`
	IsActive  bool       `gorm:"not null"`
	RoleID    int64      `gorm:"not null;index"`
	Role      roleRecord `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (userRecord) TableName() string {
	return "users"
}

func fromDomain(u *domain.User) *userRecord {
	return &userRecord{
		Model:     Model{ID: u.ID},
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.PasswordHash,
		IsActive:  u.IsActive,
		RoleID:    u.RoleID,
	}
}

func (r *userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PasswordHash: r.Password,
		IsActive:     r.IsActive,
		RoleID:       r.RoleID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		u.DeletedAt = &t
	}
	return u
}
