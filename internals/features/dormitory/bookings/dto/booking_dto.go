package dto

import (
	"time"

	"dormku_backend/internals/features/dormitory/bookings/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	notificationModel "dormku_backend/internals/features/finance/notifications/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ========== REQUESTS ========== */

type CreateBookingRequest struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	RoomID        uuid.UUID `json:"room_id" validate:"required"`
	SemesterCount int       `json:"semester_count" validate:"required,min=1,max=10"`
}

type UpdateBookingRequest struct {
	RoomID        *uuid.UUID `json:"room_id" validate:"omitempty"`
	SemesterCount *int       `json:"semester_count" validate:"omitempty,min=1,max=10"`
}

/* ========== RESPONSES ========== */

type StudentSummary struct {
	StudentID    uuid.UUID `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
}

type RoomSummary struct {
	RoomID               uuid.UUID       `json:"room_id"`
	RoomNumber           string          `json:"room_number"`
	RoomType             string          `json:"room_type"`
	RoomPricePerSemester decimal.Decimal `json:"room_price_per_semester"`
}

type BookingResponse struct {
	BookingID            uuid.UUID  `json:"booking_id"`
	BookingTenantID      uuid.UUID  `json:"booking_tenant_id"`
	BookingStudentID     uuid.UUID  `json:"booking_student_id"`
	BookingRoomID        uuid.UUID  `json:"booking_room_id"`
	BookingSemesterCount int        `json:"booking_semester_count"`
	BookingBookedAt      *time.Time `json:"booking_booked_at,omitempty"`
	BookingCreatedAt     time.Time  `json:"booking_created_at"`
	BookingUpdatedAt     time.Time  `json:"booking_updated_at"`
	BookingArchivedAt    *time.Time `json:"booking_archived_at,omitempty"`

	Student *StudentSummary `json:"student,omitempty"`
	Room    *RoomSummary    `json:"room,omitempty"`
	Fee     decimal.Decimal `json:"fee"`
}

type CheckoutResponse struct {
	Booking      BookingResponse                            `json:"booking"`
	Notification notificationModel.CashierNotificationModel `json:"notification"`
}

/* ========== MAPPERS ========== */

func ToBookingResponse(m model.BookingModel, s *studentModel.StudentModel, r *roomModel.RoomModel) BookingResponse {
	out := BookingResponse{
		BookingID:            m.BookingID,
		BookingTenantID:      m.BookingTenantID,
		BookingStudentID:     m.BookingStudentID,
		BookingRoomID:        m.BookingRoomID,
		BookingSemesterCount: m.BookingSemesterCount,
		BookingBookedAt:      m.BookingBookedAt,
		BookingCreatedAt:     m.BookingCreatedAt,
		BookingUpdatedAt:     m.BookingUpdatedAt,
		Fee:                  decimal.Zero,
	}
	if m.BookingArchivedAt.Valid {
		t := m.BookingArchivedAt.Time
		out.BookingArchivedAt = &t
	}
	if s != nil {
		out.Student = &StudentSummary{
			StudentID:    s.StudentID,
			StudentName:  s.StudentName,
			StudentEmail: s.StudentEmail,
		}
	}
	if r != nil {
		out.Room = &RoomSummary{
			RoomID:               r.RoomID,
			RoomNumber:           r.RoomNumber,
			RoomType:             r.RoomType,
			RoomPricePerSemester: r.RoomPricePerSemester,
		}
		out.Fee = r.RoomPricePerSemester.Mul(decimal.NewFromInt(int64(m.BookingSemesterCount)))
	}
	return out
}
