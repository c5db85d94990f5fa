package dto

import (
	"strings"
	"time"

	"dormku_backend/internals/features/users/users/model"

	"github.com/google/uuid"
)

/* ========== REQUESTS ========== */

type CreateUserRequest struct {
	UserName     string     `json:"user_name" validate:"required,max=150"`
	UserEmail    string     `json:"user_email" validate:"required,email,max=190"`
	UserPassword string     `json:"user_password" validate:"required,min=8,max=72"`
	UserRole     string     `json:"user_role" validate:"required,oneof=admin manager cashier"`
	UserTenantID *uuid.UUID `json:"user_tenant_id"`
}

func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.UserEmail = strings.ToLower(strings.TrimSpace(r.UserEmail))
	r.UserRole = strings.ToLower(strings.TrimSpace(r.UserRole))
}

// UpdateUserRequest: ClearTenant detaches the user from its dormitory.
type UpdateUserRequest struct {
	UserName     *string    `json:"user_name" validate:"omitempty,max=150"`
	UserRole     *string    `json:"user_role" validate:"omitempty,oneof=admin manager cashier"`
	UserTenantID *uuid.UUID `json:"user_tenant_id"`
	ClearTenant  bool       `json:"clear_tenant"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ListUsersQuery struct {
	Role     string     `query:"role" validate:"omitempty,oneof=admin manager cashier"`
	TenantID *uuid.UUID `query:"-"`
}

/* ========== RESPONSES ========== */

type UserResponse struct {
	UserID        uuid.UUID  `json:"user_id"`
	UserName      string     `json:"user_name"`
	UserEmail     string     `json:"user_email"`
	UserRole      string     `json:"user_role"`
	UserIsActive  bool       `json:"user_is_active"`
	UserTenantID  *uuid.UUID `json:"user_tenant_id,omitempty"`
	UserCreatedAt time.Time  `json:"user_created_at"`
	UserUpdatedAt time.Time  `json:"user_updated_at"`
}

func ToUserResponse(m model.UserModel) UserResponse {
	return UserResponse{
		UserID:        m.UserID,
		UserName:      m.UserName,
		UserEmail:     m.UserEmail,
		UserRole:      m.UserRole,
		UserIsActive:  m.UserIsActive,
		UserTenantID:  m.UserTenantID,
		UserCreatedAt: m.UserCreatedAt,
		UserUpdatedAt: m.UserUpdatedAt,
	}
}

func ToUserResponses(rows []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, ToUserResponse(m))
	}
	return out
}
