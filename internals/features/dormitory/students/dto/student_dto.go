package dto

import (
	"strings"
	"time"

	bookingService "dormku_backend/internals/features/dormitory/bookings/service"
	"dormku_backend/internals/features/dormitory/students/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ========== REQUESTS (manager) ========== */

type CreateStudentRequest struct {
	StudentName     string  `json:"student_name" validate:"required,max=150"`
	StudentEmail    string  `json:"student_email" validate:"required,email,max=190"`
	StudentPhone    string  `json:"student_phone" validate:"omitempty,max=50"`
	StudentPassword *string `json:"student_password" validate:"omitempty,min=8,max=72"`
}

func (r *CreateStudentRequest) Normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.StudentEmail = strings.ToLower(strings.TrimSpace(r.StudentEmail))
	r.StudentPhone = strings.TrimSpace(r.StudentPhone)
}

type UpdateStudentRequest struct {
	StudentName  *string `json:"student_name" validate:"omitempty,max=150"`
	StudentEmail *string `json:"student_email" validate:"omitempty,email,max=190"`
	StudentPhone *string `json:"student_phone" validate:"omitempty,max=50"`
}

type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

/* ========== REQUESTS (student) ========== */

type UpdatePresenceRequest struct {
	Status string  `json:"status" validate:"required,oneof=in on_leave"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

/* ========== RESPONSES ========== */

type CurrentBooking struct {
	bookingService.ActiveBooking
	Fee decimal.Decimal `json:"fee"`
}

type StudentResponse struct {
	StudentID       uuid.UUID `json:"student_id"`
	StudentTenantID uuid.UUID `json:"student_tenant_id"`
	StudentName     string    `json:"student_name"`
	StudentEmail    string    `json:"student_email"`
	StudentPhone    string    `json:"student_phone"`
	CanLogin        bool      `json:"can_login"`

	StudentPresenceStatus  model.PresenceStatus `json:"student_presence_status"`
	StudentLeaveReason     *string              `json:"student_leave_reason,omitempty"`
	StudentStatusChangedAt *time.Time           `json:"student_status_changed_at,omitempty"`

	StudentPaymentStatus model.PaymentStatus `json:"student_payment_status"`
	StudentAmountPaid    *decimal.Decimal    `json:"student_amount_paid"`
	StudentPaymentDate   *time.Time          `json:"student_payment_date,omitempty"`
	StudentPaymentNotes  *string             `json:"student_payment_notes,omitempty"`

	StudentCreatedAt  time.Time  `json:"student_created_at"`
	StudentUpdatedAt  time.Time  `json:"student_updated_at"`
	StudentArchivedAt *time.Time `json:"student_archived_at,omitempty"`

	CurrentBooking *CurrentBooking `json:"current_booking"`
}

func ToStudentResponse(m model.StudentModel, active *bookingService.ActiveBooking) StudentResponse {
	out := StudentResponse{
		StudentID:              m.StudentID,
		StudentTenantID:        m.StudentTenantID,
		StudentName:            m.StudentName,
		StudentEmail:           m.StudentEmail,
		StudentPhone:           m.StudentPhone,
		CanLogin:               m.CanLogin(),
		StudentPresenceStatus:  m.StudentPresenceStatus,
		StudentLeaveReason:     m.StudentLeaveReason,
		StudentStatusChangedAt: m.StudentStatusChangedAt,
		StudentPaymentStatus:   m.StudentPaymentStatus,
		StudentPaymentDate:     m.StudentPaymentDate,
		StudentPaymentNotes:    m.StudentPaymentNotes,
		StudentCreatedAt:       m.StudentCreatedAt,
		StudentUpdatedAt:       m.StudentUpdatedAt,
	}
	if m.StudentAmountPaid.Valid {
		v := m.StudentAmountPaid.Decimal
		out.StudentAmountPaid = &v
	}
	if m.StudentArchivedAt.Valid {
		t := m.StudentArchivedAt.Time
		out.StudentArchivedAt = &t
	}
	if active != nil {
		out.CurrentBooking = &CurrentBooking{ActiveBooking: *active, Fee: active.Fee()}
	}
	return out
}
