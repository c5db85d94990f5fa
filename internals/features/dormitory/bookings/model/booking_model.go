package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinSemesters = 1
	MaxSemesters = 10
)

// BookingModel: at most one non-archived booking per student (uq_bookings_student_active, created by migration).
type BookingModel struct {
	BookingID        uuid.UUID `json:"booking_id" gorm:"type:char(36);primaryKey;column:booking_id"`
	BookingTenantID  uuid.UUID `json:"booking_tenant_id" gorm:"type:char(36);not null;index:idx_bookings_tenant;column:booking_tenant_id"`
	BookingStudentID uuid.UUID `json:"booking_student_id" gorm:"type:char(36);not null;index:idx_bookings_student;column:booking_student_id"`
	BookingRoomID    uuid.UUID `json:"booking_room_id" gorm:"type:char(36);not null;index:idx_bookings_room;column:booking_room_id"`

	BookingSemesterCount int        `json:"booking_semester_count" gorm:"not null;default:1;column:booking_semester_count"`
	BookingBookedAt      *time.Time `json:"booking_booked_at,omitempty" gorm:"column:booking_booked_at"`

	BookingCreatedAt  time.Time      `json:"booking_created_at" gorm:"column:booking_created_at;autoCreateTime"`
	BookingUpdatedAt  time.Time      `json:"booking_updated_at" gorm:"column:booking_updated_at;autoUpdateTime"`
	BookingArchivedAt gorm.DeletedAt `json:"booking_archived_at,omitempty" gorm:"column:booking_archived_at;index"`
}

func (BookingModel) TableName() string { return "bookings" }

func (m *BookingModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookingID == uuid.Nil {
		m.BookingID = uuid.New()
	}
	return nil
}

func (m BookingModel) IsActive() bool { return !m.BookingArchivedAt.Valid }
