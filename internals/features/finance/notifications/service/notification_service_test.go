package service

import (
	"context"
	"testing"
	"time"

	"dormku_backend/internals/features/finance/notifications/dto"
	"dormku_backend/internals/features/finance/notifications/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNotice(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string, createdAt time.Time) model.CashierNotificationModel {
	t.Helper()
	m := model.CashierNotificationModel{
		CashierNotificationTenantID:       tenantID,
		CashierNotificationBookingID:      uuid.New(),
		CashierNotificationStudentID:      uuid.New(),
		CashierNotificationStudentName:    name,
		CashierNotificationRoomNumber:     "A-1",
		CashierNotificationCheckedOut:     createdAt,
		CashierNotificationDaysStayed:     31,
		CashierNotificationMonthsStayed:   2,
		CashierNotificationMonthlyRate:    decimal.NewFromInt(400),
		CashierNotificationCalculatedCost: decimal.NewFromInt(800),
		CashierNotificationCreatedAt:      createdAt,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func TestListPutsUnreadFirstAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	svc := NewNotificationService(db)
	svc.Now = clock.Now
	tenant := testutil.Tenant(t, db, "West Hall")
	other := testutil.Tenant(t, db, "East Hall")
	cashier := testutil.Cashier(tenant.TenantID)

	older := seedNotice(t, db, tenant.TenantID, "older", clock.T.Add(-2*time.Hour))
	newer := seedNotice(t, db, tenant.TenantID, "newer", clock.T.Add(-time.Hour))
	seedNotice(t, db, other.TenantID, "elsewhere", clock.T)

	_, err := svc.MarkRead(ctx, cashier, newer.CashierNotificationID)
	require.NoError(t, err)

	rows, err := svc.List(ctx, cashier, dto.ListNotificationsQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, older.CashierNotificationID, rows[0].CashierNotificationID)
	assert.Equal(t, newer.CashierNotificationID, rows[1].CashierNotificationID)

	rows, err = svc.List(ctx, testutil.Manager(tenant.TenantID), dto.ListNotificationsQuery{Unread: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "older", rows[0].CashierNotificationStudentName)

	n, err := svc.CountUnread(ctx, tenant.TenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMarkReadKeepsFirstReadTime(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	svc := NewNotificationService(db)
	svc.Now = clock.Now
	tenant := testutil.Tenant(t, db, "West Hall")
	notice := seedNotice(t, db, tenant.TenantID, "x", clock.T)
	cashier := testutil.Cashier(tenant.TenantID)

	first, err := svc.MarkRead(ctx, cashier, notice.CashierNotificationID)
	require.NoError(t, err)
	require.NotNil(t, first.CashierNotificationReadAt)
	assert.True(t, clock.T.Equal(*first.CashierNotificationReadAt))

	clock.Advance(time.Hour)
	again, err := svc.MarkRead(ctx, cashier, notice.CashierNotificationID)
	require.NoError(t, err)
	assert.True(t, first.CashierNotificationReadAt.Equal(*again.CashierNotificationReadAt))
}

func TestNotificationsAreTenantScoped(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewNotificationService(db)
	tenant := testutil.Tenant(t, db, "West Hall")
	other := testutil.Tenant(t, db, "East Hall")
	notice := seedNotice(t, db, tenant.TenantID, "x", time.Now().UTC())

	_, err := svc.MarkRead(ctx, testutil.Cashier(other.TenantID), notice.CashierNotificationID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.List(ctx, testutil.Admin(), dto.ListNotificationsQuery{})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.MarkRead(ctx, testutil.Cashier(tenant.TenantID), uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	res, err := svc.MarkAllRead(ctx, testutil.Cashier(tenant.TenantID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Updated)
}
