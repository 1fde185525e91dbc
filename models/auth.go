package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims issued to a supervisor session
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`

	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the outcome of a lockout-gated login attempt.
type LoginResult struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	LockedUntil       *time.Time `json:"lockedUntil,omitempty"`
	RemainingAttempts int        `json:"remainingAttempts"`
}

// RoleSupervisor is the only role allowed past the protected routes.
const RoleSupervisor = "supervisor"

// Supervisor is the account allowed to drive assignments.
type Supervisor struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      Supervisor `json:"user"`
}
