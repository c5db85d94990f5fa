package dto

import (
	"strings"

	"github.com/google/uuid"
)

type SubmitApplicationRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=150"`
	Email    string    `json:"email" validate:"required,email,max=190"`
	Phone    string    `json:"phone" validate:"omitempty,max=50"`
	Message  string    `json:"message" validate:"required,max=2000"`
}

func (r *SubmitApplicationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
}

type RejectApplicationRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

type ListApplicationsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}
