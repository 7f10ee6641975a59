package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries the credentials submitted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the public shape of the authenticated user.
type UserInfo struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Kind      UserKind `json:"kind"`
	RoleName  string   `json:"role_name,omitempty"`
}

// JWTClaims are embedded in issued access tokens.
type JWTClaims struct {
	UserID int64    `json:"uid"`
	Email  string   `json:"email"`
	Kind   UserKind `json:"kind"`
	RoleID *int64   `json:"role_id,omitempty"`
	jwt.RegisteredClaims
}

// ChangePasswordRequest rotates the caller's credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
