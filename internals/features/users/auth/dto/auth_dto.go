package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type AdminSetupRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=190"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *AdminSetupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Role        string     `json:"role"`
	TenantID    *uuid.UUID `json:"tenant_id,omitempty"`
}

type MeResponse struct {
	UserID   uuid.UUID  `json:"user_id"`
	Kind     string     `json:"kind"`
	Role     string     `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}
