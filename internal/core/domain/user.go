package domain

import "time"

// User models an account as seen by the service layer. PasswordHash never
// leaves the process in a response body.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        *string    `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"isActive"`
	RoleID       int64      `json:"roleId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"-"`
}

// StateLabel is the human readable form of IsActive.
func (u *User) StateLabel() string {
	if u.IsActive {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// Role groups users. Roles are stored but never enforced.
type Role struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserDraft is the create payload.
type UserDraft struct {
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Email           string
	ConfirmEmail    string
	RoleID          int64
}

// UserPatch is the update payload. Empty strings mean "not supplied".
type UserPatch struct {
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Email           string
	ConfirmEmail    string
}

// UserChanges is the write set handed to the repository on update. Nil
// fields are left untouched.
type UserChanges struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether no column would be written.
func (c UserChanges) Empty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Email == nil && c.PasswordHash == nil
}

// Credentials is the login payload.
type Credentials struct {
	Username string
	Password string
}
