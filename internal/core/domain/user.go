package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles known to the platform.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTrainer Role = "TRAINER"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTrainer
}

// CanManagePlatform reports whether the role may use the admin surfaces
// (trainer management, system settings). Guards call this instead of
// comparing role strings.
func (r Role) CanManagePlatform() bool {
	return r == RoleAdmin
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrResetNotAllowed    = errors.New("password reset not verified")
	ErrForbidden          = errors.New("access forbidden")
)

// User models an account on the platform. Admin accounts sign in to the
// dashboard; trainer accounts are the records managed there.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Language     string    `json:"language,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
