package service

import (
	"context"
	"errors"
	"testing"
	"time"

	database "dormku_backend/internals/databases"
	appModel "dormku_backend/internals/features/dormitory/applications/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	notificationModel "dormku_backend/internals/features/finance/notifications/model"
	paymentModel "dormku_backend/internals/features/finance/payments/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T, db *gorm.DB) *DashboardService {
	t.Helper()
	x, err := database.SQLX(db)
	require.NoError(t, err)
	return NewDashboardService(x)
}

func setStatus(t *testing.T, db *gorm.DB, st studentModel.StudentModel, status studentModel.PaymentStatus, amount int64) {
	t.Helper()
	require.NoError(t, db.Model(&studentModel.StudentModel{}).
		Where("student_id = ?", st.StudentID).
		Updates(map[string]any{"student_payment_status": status, "student_amount_paid": decimal.NewFromInt(amount)}).Error)
}

func TestAdminDashboardCountsPerTenant(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(t, db)
	north := testutil.Tenant(t, db, "North")
	south := testutil.Tenant(t, db, "South")

	r1 := testutil.Room(t, db, north.TenantID, "A-1", 2, 1000)
	testutil.Room(t, db, north.TenantID, "A-2", 3, 1000)
	archived := testutil.Room(t, db, north.TenantID, "A-3", 4, 1000)
	require.NoError(t, db.Delete(&archived).Error)
	testutil.Room(t, db, south.TenantID, "B-1", 1, 900)

	st := testutil.Student(t, db, north.TenantID, "a@x.io")
	testutil.Student(t, db, north.TenantID, "b@x.io")
	testutil.Booking(t, db, r1, st, nil)
	require.NoError(t, db.Create(&appModel.ApplicationModel{
		ApplicationTenantID: north.TenantID, ApplicationName: "Rina", ApplicationEmail: "rina@x.io", ApplicationMessage: "hi",
		ApplicationStatus: appModel.ApplicationPending,
	}).Error)

	out, err := svc.Admin(context.Background(), testutil.Admin())
	require.NoError(t, err)
	require.Len(t, out.Tenants, 2)

	n := out.Tenants[0]
	assert.Equal(t, "North", n.TenantName)
	assert.Equal(t, 2, n.Rooms)
	assert.Equal(t, 5, n.Capacity)
	assert.Equal(t, 1, n.Occupancy)
	assert.Equal(t, 2, n.Students)
	assert.Equal(t, 1, n.ActiveBookings)
	assert.Equal(t, 1, n.PendingApplications)

	assert.Equal(t, 2, out.Totals.Tenants)
	assert.Equal(t, 3, out.Totals.Rooms)
	assert.Equal(t, 6, out.Totals.Capacity)

	_, err = svc.Admin(context.Background(), testutil.Manager(north.TenantID))
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestTenantDashboardForFinanceStaff(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(t, db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	other := testutil.Tenant(t, db, "South")
	room := testutil.Room(t, db, tenant.TenantID, "A-1", 2, 1000)

	paid := testutil.Student(t, db, tenant.TenantID, "a@x.io")
	partial := testutil.Student(t, db, tenant.TenantID, "b@x.io")
	testutil.Student(t, db, tenant.TenantID, "c@x.io")
	testutil.Student(t, db, other.TenantID, "d@x.io")
	setStatus(t, db, paid, studentModel.PaymentPaid, 1000)
	setStatus(t, db, partial, studentModel.PaymentPartial, 250)
	b := testutil.Booking(t, db, room, paid, nil)

	require.NoError(t, db.Create(&paymentModel.PaymentRecordModel{
		PaymentRecordTenantID: tenant.TenantID, PaymentRecordStudentID: paid.StudentID,
		PaymentRecordStudentName: paid.StudentName, PaymentRecordStudentEmail: paid.StudentEmail,
		PaymentRecordAmount: decimal.NewFromInt(1000), PaymentRecordStatus: "paid",
		PaymentRecordMethod: paymentModel.MethodCash, PaymentRecordRecordedAt: time.Now().UTC(),
	}).Error)
	require.NoError(t, db.Create(&notificationModel.CashierNotificationModel{
		CashierNotificationTenantID: tenant.TenantID, CashierNotificationBookingID: b.BookingID,
		CashierNotificationStudentID: paid.StudentID, CashierNotificationStudentName: paid.StudentName,
		CashierNotificationRoomNumber: room.RoomNumber, CashierNotificationCheckedOut: time.Now().UTC(),
		CashierNotificationMonthlyRate: decimal.NewFromInt(400), CashierNotificationCalculatedCost: decimal.Zero,
	}).Error)

	out, err := svc.Tenant(ctx, testutil.Cashier(tenant.TenantID))
	require.NoError(t, err)
	assert.Equal(t, tenant.TenantID, out.Stats.TenantID)
	assert.Equal(t, 3, out.Stats.Students)
	assert.Equal(t, 1, out.Stats.Occupancy)
	assert.Equal(t, 1, out.UnreadNotifications)
	assert.True(t, out.Collected.Equal(decimal.NewFromInt(1000)), out.Collected.String())

	byStatus := map[string]int{}
	for _, row := range out.Payments {
		byStatus[row.Status] = row.Students
	}
	assert.Equal(t, map[string]int{"paid": 1, "partial": 1, "unpaid": 1}, byStatus)

	_, err = svc.Tenant(ctx, testutil.Manager(tenant.TenantID))
	require.NoError(t, err)

	_, err = svc.Tenant(ctx, testutil.Admin())
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = svc.Tenant(ctx, testutil.StudentPrincipal(paid))
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestTenantDashboardArchivedTenantIsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(t, db)
	tenant := testutil.Tenant(t, db, "North")
	require.NoError(t, db.Delete(&tenant).Error)

	_, err := svc.Tenant(context.Background(), testutil.Manager(tenant.TenantID))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDashboardQueryFailureIsInfrastructure(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	svc := NewDashboardService(sqlx.NewDb(raw, "sqlmock"))

	mock.ExpectQuery("SELECT t.tenant_id").WillReturnError(errors.New("connection reset"))

	_, err = svc.Admin(context.Background(), testutil.Admin())
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.True(t, ae.Retryable())
	assert.NoError(t, mock.ExpectationsWereMet())
}
