package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	IsActive     bool
	IsSuperuser  bool
	Role         Role
	CreatedAt    time.Time
}

// Public is the client-visible view. The password hash never leaves the
// service layer.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type DeactivateResponse struct {
	ID int64 `json:"id"`
}
