package service

import (
	"context"
	"time"

	"dormku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActiveBooking is a student's current booking joined with its room.
type ActiveBooking struct {
	BookingID            uuid.UUID       `json:"booking_id"`
	BookingStudentID     uuid.UUID       `json:"-"`
	BookingRoomID        uuid.UUID       `json:"room_id"`
	BookingSemesterCount int             `json:"semester_count"`
	BookingBookedAt      *time.Time      `json:"booked_at,omitempty"`
	RoomNumber           string          `json:"room_number"`
	RoomType             string          `json:"room_type"`
	RoomPricePerSemester decimal.Decimal `json:"price_per_semester"`
}

func (a ActiveBooking) Fee() decimal.Decimal {
	return SemesterFee(a.BookingSemesterCount, a.RoomPricePerSemester)
}

// ActiveBookingsByStudent loads active bookings keyed by student. Empty ids means every student of the tenant.
func ActiveBookingsByStudent(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, studentIDs ...uuid.UUID) (map[uuid.UUID]ActiveBooking, error) {
	q := db.WithContext(ctx).Table("bookings").
		Select(`bookings.booking_id, bookings.booking_student_id, bookings.booking_room_id,
			bookings.booking_semester_count, bookings.booking_booked_at,
			rooms.room_number, rooms.room_type, rooms.room_price_per_semester`).
		Joins("JOIN rooms ON rooms.room_id = bookings.booking_room_id").
		Where("bookings.booking_tenant_id = ? AND bookings.booking_archived_at IS NULL", tenantID)
	if len(studentIDs) > 0 {
		q = q.Where("bookings.booking_student_id IN ?", studentIDs)
	}

	var rows []ActiveBooking
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperror.Infra("load active bookings", err)
	}
	out := make(map[uuid.UUID]ActiveBooking, len(rows))
	for _, r := range rows {
		out[r.BookingStudentID] = r
	}
	return out, nil
}
