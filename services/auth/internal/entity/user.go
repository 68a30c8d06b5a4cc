package entity

import (
	"errors"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleStaff    UserRole = "staff"
	RoleAgent    UserRole = "agent"
	RoleExternal UserRole = "external"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleAgent, RoleExternal:
		return true
	}
	return false
}

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDeactivated        = errors.New("account is deactivated")
	ErrInvalidRole        = errors.New("unknown role")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("only admins can create users")
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
