package model

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient:
		return true
	default:
		return false
	}
}

// Permission is an action restricted by role.
type Permission int

const (
	PermManageCatalog Permission = iota // create, update and delete cars
	PermManageInbox                     // read and manage contact messages
	PermManageUsers                     // admin dashboard and user management
)

// Can reports whether the role grants p. Clients hold no restricted permission.
func (r Role) Can(p Permission) bool {
	switch p {
	case PermManageCatalog, PermManageInbox, PermManageUsers:
		return r == RoleAdmin
	default:
		return false
	}
}

// Principal identifies the caller of a request, as decoded from its bearer token.
type Principal struct {
	UserID int64
	Role   Role
}

// User represents an account in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never exposed
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Role         Role      `json:"role"`
	Favorites    []int64   `json:"favorites"` // Car IDs, read-only
	DateJoined   time.Time `json:"date_joined"`
}

// RegisterRequest is the payload of POST /auth/register
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	Phone           string `json:"phone" binding:"max=20"`
}

// LoginRequest is the payload of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the payload of POST /auth/refresh
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ChangePasswordRequest is the payload of POST /auth/password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateUserRequest carries a partial profile update. Role and favorites are read-only.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=1,max=150"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Name     *string `json:"name,omitempty" binding:"omitempty,max=150"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=255"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// AdminStats holds the dashboard counters.
type AdminStats struct {
	TotalCars      int64 `json:"total_cars"`
	TotalMessages  int64 `json:"total_messages"`
	UnreadMessages int64 `json:"unread_messages"`
	TotalUsers     int64 `json:"total_users"` // CLIENT accounts only
}
