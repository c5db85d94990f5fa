package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashierNotificationModel is written once at checkout; only read_at changes afterwards.
type CashierNotificationModel struct {
	CashierNotificationID        uuid.UUID `json:"cashier_notification_id" gorm:"type:char(36);primaryKey;column:cashier_notification_id"`
	CashierNotificationTenantID  uuid.UUID `json:"cashier_notification_tenant_id" gorm:"type:char(36);not null;index:idx_cashier_notifications_tenant;column:cashier_notification_tenant_id"`
	CashierNotificationBookingID uuid.UUID `json:"cashier_notification_booking_id" gorm:"type:char(36);not null;index:idx_cashier_notifications_booking;column:cashier_notification_booking_id"`
	CashierNotificationStudentID uuid.UUID `json:"cashier_notification_student_id" gorm:"type:char(36);not null;column:cashier_notification_student_id"`

	CashierNotificationStudentName string     `json:"cashier_notification_student_name" gorm:"type:varchar(150);not null;column:cashier_notification_student_name"`
	CashierNotificationRoomNumber  string     `json:"cashier_notification_room_number" gorm:"type:varchar(30);not null;column:cashier_notification_room_number"`
	CashierNotificationBookedAt    *time.Time `json:"cashier_notification_booked_at,omitempty" gorm:"column:cashier_notification_booked_at"`
	CashierNotificationCheckedOut  time.Time  `json:"cashier_notification_checked_out_at" gorm:"not null;column:cashier_notification_checked_out_at"`

	CashierNotificationDaysStayed     int             `json:"cashier_notification_days_stayed" gorm:"not null;column:cashier_notification_days_stayed"`
	CashierNotificationMonthsStayed   int             `json:"cashier_notification_months_stayed" gorm:"not null;column:cashier_notification_months_stayed"`
	CashierNotificationMonthlyRate    decimal.Decimal `json:"cashier_notification_monthly_rate" gorm:"type:numeric(12,2);not null;column:cashier_notification_monthly_rate"`
	CashierNotificationCalculatedCost decimal.Decimal `json:"cashier_notification_calculated_cost" gorm:"type:numeric(12,2);not null;column:cashier_notification_calculated_cost"`

	CashierNotificationReadAt    *time.Time `json:"cashier_notification_read_at,omitempty" gorm:"index:idx_cashier_notifications_read;column:cashier_notification_read_at"`
	CashierNotificationCreatedAt time.Time  `json:"cashier_notification_created_at" gorm:"column:cashier_notification_created_at;autoCreateTime"`
}

func (CashierNotificationModel) TableName() string { return "cashier_notifications" }

func (m *CashierNotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.CashierNotificationID == uuid.Nil {
		m.CashierNotificationID = uuid.New()
	}
	return nil
}
