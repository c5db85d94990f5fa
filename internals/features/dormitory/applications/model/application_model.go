package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ApplicationModel leaves pending exactly once.
type ApplicationModel struct {
	ApplicationID       uuid.UUID `json:"application_id" gorm:"type:char(36);primaryKey;column:application_id"`
	ApplicationTenantID uuid.UUID `json:"application_tenant_id" gorm:"type:char(36);not null;index:idx_applications_tenant_status,priority:1;column:application_tenant_id"`

	ApplicationName    string `json:"application_name" gorm:"type:varchar(150);not null;column:application_name"`
	ApplicationEmail   string `json:"application_email" gorm:"type:varchar(190);not null;column:application_email"`
	ApplicationPhone   string `json:"application_phone" gorm:"type:varchar(50);not null;default:'';column:application_phone"`
	ApplicationMessage string `json:"application_message" gorm:"type:text;not null;column:application_message"`

	ApplicationStatus          ApplicationStatus `json:"application_status" gorm:"type:varchar(20);not null;default:'pending';index:idx_applications_tenant_status,priority:2;column:application_status"`
	ApplicationRejectionReason *string           `json:"application_rejection_reason,omitempty" gorm:"type:text;column:application_rejection_reason"`
	ApplicationProcessedBy     *uuid.UUID        `json:"application_processed_by,omitempty" gorm:"type:char(36);column:application_processed_by"`
	ApplicationProcessedAt     *time.Time        `json:"application_processed_at,omitempty" gorm:"column:application_processed_at"`
	ApplicationStudentID       *uuid.UUID        `json:"application_student_id,omitempty" gorm:"type:char(36);column:application_student_id"`

	ApplicationCreatedAt time.Time `json:"application_created_at" gorm:"column:application_created_at;autoCreateTime"`
	ApplicationUpdatedAt time.Time `json:"application_updated_at" gorm:"column:application_updated_at;autoUpdateTime"`
}

func (ApplicationModel) TableName() string { return "applications" }

func (m *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	return nil
}
