package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

type MagicLinkRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to,omitempty" validate:"omitempty,url"`
}

type MagicLinkResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

// Session is returned once a magic link has been followed.
type Session struct {
	Token      string `json:"token"`
	ExpiresIn  int    `json:"expires_in"`
	RedirectTo string `json:"redirect_to,omitempty"`
	User       *User  `json:"user"`
	IsAdmin    bool   `json:"is_admin"`
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

type SessionEvent struct {
	Type   SessionEventType `json:"type"`
	UserID uuid.UUID        `json:"user_id"`
	Email  string           `json:"email"`
	Claims *Claims          `json:"-"`
	At     time.Time        `json:"at"`
}

// JWT claims structure, ID (jti) identifies the session for sign-out.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}
