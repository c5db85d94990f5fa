package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PresenceStatus string

const (
	PresenceIn      PresenceStatus = "in"
	PresenceOnLeave PresenceStatus = "on_leave"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentUnpaid || s == PaymentPartial || s == PaymentPaid
}

type StudentModel struct {
	StudentID       uuid.UUID `json:"student_id" gorm:"type:char(36);primaryKey;column:student_id"`
	StudentTenantID uuid.UUID `json:"student_tenant_id" gorm:"type:char(36);not null;index:idx_students_tenant;column:student_tenant_id"`

	StudentName         string  `json:"student_name" gorm:"type:varchar(150);not null;column:student_name"`
	StudentEmail        string  `json:"student_email" gorm:"type:varchar(190);not null;uniqueIndex:uq_students_email;column:student_email"`
	StudentPhone        string  `json:"student_phone" gorm:"type:varchar(50);not null;default:'';column:student_phone"`
	StudentPasswordHash *string `json:"-" gorm:"type:varchar(100);column:student_password_hash"`

	StudentPresenceStatus  PresenceStatus `json:"student_presence_status" gorm:"type:varchar(20);not null;default:'in';column:student_presence_status"`
	StudentLeaveReason     *string        `json:"student_leave_reason,omitempty" gorm:"type:text;column:student_leave_reason"`
	StudentStatusChangedAt *time.Time     `json:"student_status_changed_at,omitempty" gorm:"column:student_status_changed_at"`

	StudentPaymentStatus PaymentStatus       `json:"student_payment_status" gorm:"type:varchar(20);not null;default:'unpaid';column:student_payment_status"`
	StudentAmountPaid    decimal.NullDecimal `json:"student_amount_paid" gorm:"type:numeric(12,2);column:student_amount_paid"`
	StudentPaymentDate   *time.Time          `json:"student_payment_date,omitempty" gorm:"column:student_payment_date"`
	StudentPaymentNotes  *string             `json:"student_payment_notes,omitempty" gorm:"type:text;column:student_payment_notes"`

	StudentCreatedAt  time.Time      `json:"student_created_at" gorm:"column:student_created_at;autoCreateTime"`
	StudentUpdatedAt  time.Time      `json:"student_updated_at" gorm:"column:student_updated_at;autoUpdateTime"`
	StudentArchivedAt gorm.DeletedAt `json:"student_archived_at,omitempty" gorm:"column:student_archived_at;index"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}

func (m StudentModel) CanLogin() bool {
	return m.StudentPasswordHash != nil && *m.StudentPasswordHash != ""
}
