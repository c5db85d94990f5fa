package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TenantStats struct {
	TenantID            uuid.UUID `json:"tenant_id" db:"tenant_id"`
	TenantName          string    `json:"tenant_name" db:"tenant_name"`
	Rooms               int       `json:"rooms" db:"rooms"`
	Capacity            int       `json:"capacity" db:"capacity"`
	Occupancy           int       `json:"occupancy" db:"occupancy"`
	Students            int       `json:"students" db:"students"`
	ActiveBookings      int       `json:"active_bookings" db:"active_bookings"`
	PendingApplications int       `json:"pending_applications" db:"pending_applications"`
}

type PaymentBreakdown struct {
	Status     string          `json:"status" db:"status"`
	Students   int             `json:"students" db:"students"`
	AmountPaid decimal.Decimal `json:"amount_paid" db:"amount_paid"`
}

type AdminDashboard struct {
	Tenants []TenantStats `json:"tenants"`
	Totals  Totals        `json:"totals"`
}

type Totals struct {
	Tenants             int `json:"tenants"`
	Rooms               int `json:"rooms"`
	Capacity            int `json:"capacity"`
	Occupancy           int `json:"occupancy"`
	Students            int `json:"students"`
	ActiveBookings      int `json:"active_bookings"`
	PendingApplications int `json:"pending_applications"`
}

type TenantDashboard struct {
	Stats               TenantStats        `json:"stats"`
	Payments            []PaymentBreakdown `json:"payments"`
	Collected           decimal.Decimal    `json:"collected"`
	UnreadNotifications int                `json:"unread_notifications"`
}
