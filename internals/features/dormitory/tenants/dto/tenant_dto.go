package dto

import (
	"strings"

	"dormku_backend/internals/features/dormitory/tenants/model"

	"github.com/google/uuid"
)

type CreateTenantRequest struct {
	TenantName          string  `json:"tenant_name" validate:"required,max=150"`
	TenantAddress       *string `json:"tenant_address" validate:"omitempty,max=500"`
	TenantContactNumber *string `json:"tenant_contact_number" validate:"omitempty,max=50"`
}

func (r *CreateTenantRequest) Normalize() {
	r.TenantName = strings.TrimSpace(r.TenantName)
	r.TenantAddress = trimPtr(r.TenantAddress)
	r.TenantContactNumber = trimPtr(r.TenantContactNumber)
}

type UpdateTenantRequest struct {
	TenantName          *string `json:"tenant_name" validate:"omitempty,max=150"`
	TenantAddress       *string `json:"tenant_address" validate:"omitempty,max=500"`
	TenantContactNumber *string `json:"tenant_contact_number" validate:"omitempty,max=50"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// PublicTenant is what the application form needs.
type PublicTenant struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	TenantName    string    `json:"tenant_name"`
	TenantSlug    string    `json:"tenant_slug"`
	TenantAddress string    `json:"tenant_address"`
}

func ToPublicTenants(rows []model.TenantModel) []PublicTenant {
	out := make([]PublicTenant, 0, len(rows))
	for _, t := range rows {
		out = append(out, PublicTenant{
			TenantID:      t.TenantID,
			TenantName:    t.TenantName,
			TenantSlug:    t.TenantSlug,
			TenantAddress: t.TenantAddress,
		})
	}
	return out
}
