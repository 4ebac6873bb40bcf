package mongo

import (
	"time"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

const (
	indexUsernameLive = "username_live"
	indexEmailLive    = "email_live"
)

// userDoc is the stored shape of a user. Live mirrors DeletedAt == nil and
// exists because partial indexes cannot filter on a null field.
type userDoc struct {
	ID        int64      `bson:"_id"`
	Username  string     `bson:"username"`
	FirstName string     `bson:"first_name"`
	LastName  string     `bson:"last_name"`
	Email     *string    `bson:"email,omitempty"`
	Password  string     `bson:"password"`
	IsActive  bool       `bson:"is_active"`
	RoleID    int64      `bson:"role_id"`
	Live      bool       `bson:"live"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty"`
}

type roleDoc struct {
	ID    int64  `bson:"_id"`
	Label string `bson:"label"`
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		IsActive:     d.IsActive,
		RoleID:       d.RoleID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
		DeletedAt:    d.DeletedAt,
	}
}
