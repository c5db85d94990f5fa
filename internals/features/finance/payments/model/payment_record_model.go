package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodMidtrans PaymentMethod = "midtrans"
)

const (
	GatewayPending  = "pending"
	GatewayPaid     = "paid"
	GatewayExpired  = "expired"
	GatewayCanceled = "canceled"
)

// PaymentRecordModel is a snapshot of one payment; student/room fields are copied at record time.
type PaymentRecordModel struct {
	PaymentRecordID        uuid.UUID `json:"payment_record_id" gorm:"type:char(36);primaryKey;column:payment_record_id"`
	PaymentRecordTenantID  uuid.UUID `json:"payment_record_tenant_id" gorm:"type:char(36);not null;index:idx_payment_records_tenant;column:payment_record_tenant_id"`
	PaymentRecordStudentID uuid.UUID `json:"payment_record_student_id" gorm:"type:char(36);not null;index:idx_payment_records_student;column:payment_record_student_id"`

	PaymentRecordStudentName  string  `json:"payment_record_student_name" gorm:"type:varchar(150);not null;column:payment_record_student_name"`
	PaymentRecordStudentEmail string  `json:"payment_record_student_email" gorm:"type:varchar(190);not null;column:payment_record_student_email"`
	PaymentRecordRoomNumber   *string `json:"payment_record_room_number,omitempty" gorm:"type:varchar(30);column:payment_record_room_number"`

	PaymentRecordAmount decimal.Decimal `json:"payment_record_amount" gorm:"type:numeric(12,2);not null;column:payment_record_amount"`
	PaymentRecordStatus string          `json:"payment_record_status" gorm:"type:varchar(20);not null;column:payment_record_status"`
	PaymentRecordMethod PaymentMethod   `json:"payment_record_method" gorm:"type:varchar(20);not null;default:'cash';column:payment_record_method"`

	PaymentRecordGatewayOrderID *string `json:"payment_record_gateway_order_id,omitempty" gorm:"type:varchar(64);uniqueIndex:uq_payment_records_order;column:payment_record_gateway_order_id"`
	PaymentRecordGatewayStatus  *string `json:"payment_record_gateway_status,omitempty" gorm:"type:varchar(20);column:payment_record_gateway_status"`
	PaymentRecordRedirectURL    *string `json:"payment_record_redirect_url,omitempty" gorm:"type:text;column:payment_record_redirect_url"`

	PaymentRecordNotes      *string    `json:"payment_record_notes,omitempty" gorm:"type:text;column:payment_record_notes"`
	PaymentRecordRecordedBy *uuid.UUID `json:"payment_record_recorded_by,omitempty" gorm:"type:char(36);column:payment_record_recorded_by"`
	PaymentRecordRecordedAt time.Time  `json:"payment_record_recorded_at" gorm:"not null;column:payment_record_recorded_at"`

	PaymentRecordCreatedAt  time.Time      `json:"payment_record_created_at" gorm:"column:payment_record_created_at;autoCreateTime"`
	PaymentRecordUpdatedAt  time.Time      `json:"payment_record_updated_at" gorm:"column:payment_record_updated_at;autoUpdateTime"`
	PaymentRecordArchivedAt gorm.DeletedAt `json:"payment_record_archived_at,omitempty" gorm:"column:payment_record_archived_at;index"`
}

func (PaymentRecordModel) TableName() string { return "payment_records" }

func (m *PaymentRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentRecordID == uuid.Nil {
		m.PaymentRecordID = uuid.New()
	}
	return nil
}
