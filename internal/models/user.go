package models

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Role names recognized by the authorization layer
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an account that can authenticate against the API.
// The scheduling core never reads users directly; it only receives the
// requester identity and role set resolved by the auth middleware.
type User struct {
	ID           string         `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	FullName     string         `json:"full_name" db:"full_name"`
	Roles        pq.StringArray `json:"roles" db:"roles"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

// Validate validates the register request
func (r *RegisterRequest) Validate() error {
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("invalid email address")
	}
	return nil
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to rotate an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken represents a persisted refresh token (stored hashed)
type RefreshToken struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	TokenHash  string     `json:"-" db:"token_hash"`
	DeviceInfo *string    `json:"device_info,omitempty" db:"device_info"`
	IPAddress  *string    `json:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	Revoked    bool       `json:"revoked" db:"revoked"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
