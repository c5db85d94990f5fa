package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantModel is one dormitory.
type TenantModel struct {
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:char(36);primaryKey;column:tenant_id"`

	TenantName          string `json:"tenant_name" gorm:"type:varchar(150);not null;column:tenant_name"`
	TenantSlug          string `json:"tenant_slug" gorm:"type:varchar(160);not null;uniqueIndex:uq_tenants_slug;column:tenant_slug"`
	TenantAddress       string `json:"tenant_address" gorm:"type:text;not null;column:tenant_address"`
	TenantContactNumber string `json:"tenant_contact_number" gorm:"type:varchar(50);not null;column:tenant_contact_number"`

	TenantCreatedAt  time.Time      `json:"tenant_created_at" gorm:"column:tenant_created_at;autoCreateTime"`
	TenantUpdatedAt  time.Time      `json:"tenant_updated_at" gorm:"column:tenant_updated_at;autoUpdateTime"`
	TenantArchivedAt gorm.DeletedAt `json:"tenant_archived_at,omitempty" gorm:"column:tenant_archived_at;index"`
}

func (TenantModel) TableName() string { return "tenants" }

func (m *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if m.TenantID == uuid.Nil {
		m.TenantID = uuid.New()
	}
	return nil
}
