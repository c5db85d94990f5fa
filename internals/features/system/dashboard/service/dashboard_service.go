package service

import (
	"context"
	"database/sql"
	"errors"

	"dormku_backend/internals/constants"
	"dormku_backend/internals/features/system/dashboard/dto"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// DashboardService runs read-only aggregates with sqlx over the shared pool.
type DashboardService struct {
	DB *sqlx.DB
}

func NewDashboardService(db *sqlx.DB) *DashboardService {
	return &DashboardService{DB: db}
}

const tenantStatsSelect = `
SELECT t.tenant_id, t.tenant_name,
	(SELECT COUNT(*) FROM rooms r
		WHERE r.room_tenant_id = t.tenant_id AND r.room_archived_at IS NULL) AS rooms,
	(SELECT COALESCE(SUM(r.room_max_capacity), 0) FROM rooms r
		WHERE r.room_tenant_id = t.tenant_id AND r.room_archived_at IS NULL) AS capacity,
	(SELECT COALESCE(SUM(r.room_occupancy), 0) FROM rooms r
		WHERE r.room_tenant_id = t.tenant_id AND r.room_archived_at IS NULL) AS occupancy,
	(SELECT COUNT(*) FROM students s
		WHERE s.student_tenant_id = t.tenant_id AND s.student_archived_at IS NULL) AS students,
	(SELECT COUNT(*) FROM bookings b
		WHERE b.booking_tenant_id = t.tenant_id AND b.booking_archived_at IS NULL) AS active_bookings,
	(SELECT COUNT(*) FROM applications a
		WHERE a.application_tenant_id = t.tenant_id AND a.application_status = 'pending') AS pending_applications
FROM tenants t
WHERE t.tenant_archived_at IS NULL`

const paymentBreakdownQuery = `
SELECT s.student_payment_status AS status,
	COUNT(*) AS students,
	COALESCE(SUM(s.student_amount_paid), 0) AS amount_paid
FROM students s
WHERE s.student_tenant_id = ? AND s.student_archived_at IS NULL
GROUP BY s.student_payment_status
ORDER BY s.student_payment_status`

const collectedQuery = `
SELECT COALESCE(SUM(p.payment_record_amount), 0)
FROM payment_records p
WHERE p.payment_record_tenant_id = ?
	AND p.payment_record_archived_at IS NULL
	AND p.payment_record_status IN ('paid', 'partial')`

const unreadQuery = `
SELECT COUNT(*) FROM cashier_notifications n
WHERE n.cashier_notification_tenant_id = ? AND n.cashier_notification_read_at IS NULL`

// Admin returns per-dormitory counts plus totals across active dormitories.
func (s *DashboardService) Admin(ctx context.Context, p helperAuth.Principal) (*dto.AdminDashboard, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	rows := []dto.TenantStats{}
	if err := s.DB.SelectContext(ctx, &rows, tenantStatsSelect+"\nORDER BY t.tenant_name"); err != nil {
		return nil, apperror.Infra("dashboard tenant stats", err)
	}

	out := &dto.AdminDashboard{Tenants: rows}
	for _, r := range rows {
		out.Totals.Tenants++
		out.Totals.Rooms += r.Rooms
		out.Totals.Capacity += r.Capacity
		out.Totals.Occupancy += r.Occupancy
		out.Totals.Students += r.Students
		out.Totals.ActiveBookings += r.ActiveBookings
		out.Totals.PendingApplications += r.PendingApplications
	}
	return out, nil
}

// Tenant is the manager/cashier view of their own dormitory.
func (s *DashboardService) Tenant(ctx context.Context, p helperAuth.Principal) (*dto.TenantDashboard, error) {
	tenantID, err := p.FinanceTenant()
	if err != nil {
		return nil, apperror.Forbidden(constants.RoleErrorFinance("the dormitory dashboard"))
	}

	var out dto.TenantDashboard
	q := s.DB.Rebind(tenantStatsSelect + "\nAND t.tenant_id = ?")
	if err := s.DB.GetContext(ctx, &out.Stats, q, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("dormitory not found")
		}
		return nil, apperror.Infra("dashboard tenant stats", err)
	}

	out.Payments = []dto.PaymentBreakdown{}
	if err := s.DB.SelectContext(ctx, &out.Payments, s.DB.Rebind(paymentBreakdownQuery), tenantID); err != nil {
		return nil, apperror.Infra("dashboard payment breakdown", err)
	}
	if out.Collected, err = s.collected(ctx, tenantID); err != nil {
		return nil, err
	}
	if err := s.DB.GetContext(ctx, &out.UnreadNotifications, s.DB.Rebind(unreadQuery), tenantID); err != nil {
		return nil, apperror.Infra("dashboard unread notifications", err)
	}
	return &out, nil
}

func (s *DashboardService) collected(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var v decimal.Decimal
	if err := s.DB.GetContext(ctx, &v, s.DB.Rebind(collectedQuery), tenantID); err != nil {
		return decimal.Zero, apperror.Infra("dashboard collected payments", err)
	}
	return v, nil
}
