package service

import (
	"context"
	"errors"
	"testing"
	"time"

	studentModel "dormku_backend/internals/features/dormitory/students/model"
	"dormku_backend/internals/features/finance/payments/dto"
	"dormku_backend/internals/features/finance/payments/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-test"

type fakeGateway struct {
	orders []CheckoutOrder
	err    error
}

func (g *fakeGateway) CreateCheckout(_ context.Context, o CheckoutOrder) (string, string, error) {
	if g.err != nil {
		return "", "", g.err
	}
	g.orders = append(g.orders, o)
	return "snap-token", "https://app.sandbox.midtrans.com/snap/v2/vtweb/" + o.OrderID, nil
}

type fixture struct {
	db     *gorm.DB
	svc    *PaymentService
	gw     *fakeGateway
	clock  *testutil.Clock
	tenant uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	clock := testutil.NewClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	gw := &fakeGateway{}
	svc := NewPaymentService(db, gw, testServerKey)
	svc.Now = clock.Now
	tenant := testutil.Tenant(t, db, "South Hall")
	return &fixture{db: db, svc: svc, gw: gw, clock: clock, tenant: tenant.TenantID}
}

// bookedStudent: one active booking, one semester, fee = price.
func (f *fixture) bookedStudent(t *testing.T, email, roomNumber string, price int64) studentModel.StudentModel {
	room := testutil.Room(t, f.db, f.tenant, roomNumber, 2, price)
	st := testutil.Student(t, f.db, f.tenant, email)
	booked := f.clock.T.AddDate(0, -1, 0)
	testutil.Booking(t, f.db, room, st, &booked)
	return st
}

func (f *fixture) student(t *testing.T, id uuid.UUID) studentModel.StudentModel {
	var m studentModel.StudentModel
	require.NoError(t, f.db.Unscoped().Where("student_id = ?", id).First(&m).Error)
	return m
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func notification(orderID, status, gross string) dto.MidtransNotification {
	return dto.MidtransNotification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		TransactionStatus: status,
		TransactionID:     uuid.NewString(),
		SignatureKey:      MidtransSignature(orderID, "200", gross, testServerKey),
	}
}

/* ===== cash ===== */

func TestSetPaymentStatusPaidWritesRecord(t *testing.T) {
	f := newFixture(t)
	st := f.bookedStudent(t, "ana@x.io", "B-1", 1500)
	notes := "  cash at front desk "

	res, err := f.svc.SetPaymentStatus(context.Background(), testutil.Cashier(f.tenant), st.StudentID,
		dto.SetPaymentStatusRequest{Status: "paid", Amount: amount(1500), Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "paid", res.PaymentStatus)
	require.NotNil(t, res.AmountPaid)
	assert.True(t, res.AmountPaid.Equal(decimal.NewFromInt(1500)))
	require.NotNil(t, res.PaymentDate)
	assert.True(t, f.clock.T.Equal(*res.PaymentDate))
	require.NotNil(t, res.PaymentNotes)
	assert.Equal(t, "cash at front desk", *res.PaymentNotes)

	require.NotNil(t, res.Record)
	var rec model.PaymentRecordModel
	require.NoError(t, f.db.Where("payment_record_id = ?", res.Record.PaymentRecordID).First(&rec).Error)
	assert.Equal(t, model.MethodCash, rec.PaymentRecordMethod)
	assert.Equal(t, "paid", rec.PaymentRecordStatus)
	assert.Equal(t, st.StudentName, rec.PaymentRecordStudentName)
	require.NotNil(t, rec.PaymentRecordRoomNumber)
	assert.Equal(t, "B-1", *rec.PaymentRecordRoomNumber)
}

func TestSetPaymentStatusUnpaidClearsAmountAndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cashier := testutil.Cashier(f.tenant)
	st := f.bookedStudent(t, "ben@x.io", "B-2", 1500)
	notes := "first half"

	_, err := f.svc.SetPaymentStatus(ctx, cashier, st.StudentID,
		dto.SetPaymentStatusRequest{Status: "partial", Amount: amount(700), Notes: &notes})
	require.NoError(t, err)

	res, err := f.svc.SetPaymentStatus(ctx, cashier, st.StudentID, dto.SetPaymentStatusRequest{Status: "unpaid", Amount: amount(10)})
	require.NoError(t, err)
	assert.Equal(t, "unpaid", res.PaymentStatus)
	assert.Nil(t, res.AmountPaid)
	assert.Nil(t, res.PaymentDate)
	assert.Nil(t, res.PaymentNotes)
	assert.Nil(t, res.Record)

	got := f.student(t, st.StudentID)
	assert.False(t, got.StudentAmountPaid.Valid)
	assert.Nil(t, got.StudentPaymentDate)

	var n int64
	require.NoError(t, f.db.Model(&model.PaymentRecordModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSetPaymentStatusRequiresPositiveAmount(t *testing.T) {
	f := newFixture(t)
	st := f.bookedStudent(t, "cy@x.io", "B-3", 1500)

	for _, amt := range []*decimal.Decimal{nil, amount(0), amount(-5)} {
		_, err := f.svc.SetPaymentStatus(context.Background(), testutil.Cashier(f.tenant), st.StudentID,
			dto.SetPaymentStatusRequest{Status: "partial", Amount: amt})
		require.Error(t, err)
		ae, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, ae.Kind)
		assert.Contains(t, ae.Fields, "amount")
	}
	assert.Equal(t, studentModel.PaymentUnpaid, f.student(t, st.StudentID).StudentPaymentStatus)
}

func TestSetPaymentStatusOtherTenantIsForbidden(t *testing.T) {
	f := newFixture(t)
	st := f.bookedStudent(t, "dee@x.io", "B-4", 1500)
	other := testutil.Tenant(t, f.db, "Other Hall")

	_, err := f.svc.SetPaymentStatus(context.Background(), testutil.Cashier(other.TenantID), st.StudentID,
		dto.SetPaymentStatusRequest{Status: "paid", Amount: amount(1500)})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.SetPaymentStatus(context.Background(), testutil.Admin(), st.StudentID,
		dto.SetPaymentStatusRequest{Status: "paid", Amount: amount(1500)})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	got := f.student(t, st.StudentID)
	assert.Equal(t, studentModel.PaymentUnpaid, got.StudentPaymentStatus)
	assert.False(t, got.StudentAmountPaid.Valid)
}

func TestListBillingComputesOutstanding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)

	owing := f.bookedStudent(t, "a@x.io", "C-1", 3000)
	over := f.bookedStudent(t, "b@x.io", "C-2", 1000)
	testutil.Student(t, f.db, f.tenant, "nobooking@x.io")

	_, err := f.svc.SetPaymentStatus(ctx, mgr, owing.StudentID, dto.SetPaymentStatusRequest{Status: "partial", Amount: amount(1000)})
	require.NoError(t, err)
	_, err = f.svc.SetPaymentStatus(ctx, mgr, over.StudentID, dto.SetPaymentStatusRequest{Status: "paid", Amount: amount(1200)})
	require.NoError(t, err)

	rows, err := f.svc.ListBilling(ctx, testutil.Cashier(f.tenant))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uuid.UUID]dto.BillingRow{}
	for _, r := range rows {
		byID[r.StudentID] = r
	}
	assert.True(t, byID[owing.StudentID].Fee.Equal(decimal.NewFromInt(3000)))
	assert.True(t, byID[owing.StudentID].Outstanding.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "C-1", byID[owing.StudentID].RoomNumber)
	assert.True(t, byID[over.StudentID].Outstanding.IsZero())

	_, err = f.svc.ListBilling(ctx, testutil.Admin())
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestListRecordsFiltersByStudentAndMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cashier := testutil.Cashier(f.tenant)
	a := f.bookedStudent(t, "a@x.io", "D-1", 1000)
	b := f.bookedStudent(t, "b@x.io", "D-2", 1000)

	for _, id := range []uuid.UUID{a.StudentID, a.StudentID, b.StudentID} {
		_, err := f.svc.SetPaymentStatus(ctx, cashier, id, dto.SetPaymentStatusRequest{Status: "partial", Amount: amount(100)})
		require.NoError(t, err)
	}
	_, err := f.svc.CreateCheckout(ctx, cashier, b.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(900)})
	require.NoError(t, err)

	rows, err := f.svc.ListRecords(ctx, cashier, dto.ListPaymentRecordsQuery{StudentID: &a.StudentID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = f.svc.ListRecords(ctx, cashier, dto.ListPaymentRecordsQuery{Method: "midtrans"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.StudentID, rows[0].PaymentRecordStudentID)

	other := testutil.Tenant(t, f.db, "Other Hall")
	_, err = f.svc.GetRecord(ctx, testutil.Cashier(other.TenantID), rows[0].PaymentRecordID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

/* ===== midtrans ===== */

func TestCheckoutThenSettlementAppliesPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.bookedStudent(t, "eve@x.io", "E-1", 3000)

	co, err := f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, "snap-token", co.Token)
	assert.Contains(t, co.OrderID, "DORM-")
	require.Len(t, f.gw.orders, 1)
	assert.Equal(t, st.StudentEmail, f.gw.orders[0].Email)

	var rec model.PaymentRecordModel
	require.NoError(t, f.db.Where("payment_record_id = ?", co.PaymentRecordID).First(&rec).Error)
	assert.Equal(t, model.MethodMidtrans, rec.PaymentRecordMethod)
	require.NotNil(t, rec.PaymentRecordGatewayStatus)
	assert.Equal(t, model.GatewayPending, *rec.PaymentRecordGatewayStatus)

	n := notification(co.OrderID, "settlement", "1000.00")
	res, err := f.svc.HandleNotification(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, model.GatewayPaid, res.GatewayStatus)

	got := f.student(t, st.StudentID)
	assert.Equal(t, studentModel.PaymentPartial, got.StudentPaymentStatus)
	assert.True(t, got.StudentAmountPaid.Decimal.Equal(decimal.NewFromInt(1000)))

	// replay
	res, err = f.svc.HandleNotification(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)
	got = f.student(t, st.StudentID)
	assert.True(t, got.StudentAmountPaid.Decimal.Equal(decimal.NewFromInt(1000)))

	var events int64
	require.NoError(t, f.db.Model(&model.PaymentGatewayEventModel{}).Where("gateway_event_order_id = ?", co.OrderID).Count(&events).Error)
	assert.EqualValues(t, 2, events)
}

func TestSettlementCoveringFeeMarksPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.bookedStudent(t, "fay@x.io", "E-2", 1500)

	_, err := f.svc.SetPaymentStatus(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.SetPaymentStatusRequest{Status: "partial", Amount: amount(500)})
	require.NoError(t, err)
	co, err := f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	_, err = f.svc.HandleNotification(ctx, notification(co.OrderID, "capture", "1000.00"))
	require.NoError(t, err)

	got := f.student(t, st.StudentID)
	assert.Equal(t, studentModel.PaymentPaid, got.StudentPaymentStatus)
	assert.True(t, got.StudentAmountPaid.Decimal.Equal(decimal.NewFromInt(1500)))
}

func TestNotificationExpireLeavesStudentUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.bookedStudent(t, "gus@x.io", "E-3", 1500)
	co, err := f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(1500)})
	require.NoError(t, err)

	res, err := f.svc.HandleNotification(ctx, notification(co.OrderID, "expire", "1500.00"))
	require.NoError(t, err)
	assert.Equal(t, model.GatewayExpired, res.GatewayStatus)

	// a late settlement after expiry is ignored
	res, err = f.svc.HandleNotification(ctx, notification(co.OrderID, "settlement", "1500.00"))
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)

	got := f.student(t, st.StudentID)
	assert.Equal(t, studentModel.PaymentUnpaid, got.StudentPaymentStatus)
	assert.False(t, got.StudentAmountPaid.Valid)
}

func TestNotificationRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.bookedStudent(t, "hal@x.io", "E-4", 1500)
	co, err := f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(1500)})
	require.NoError(t, err)

	n := notification(co.OrderID, "settlement", "1500.00")
	n.GrossAmount = "1.00"
	_, err = f.svc.HandleNotification(ctx, n)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	var rec model.PaymentRecordModel
	require.NoError(t, f.db.Where("payment_record_id = ?", co.PaymentRecordID).First(&rec).Error)
	assert.Equal(t, model.GatewayPending, *rec.PaymentRecordGatewayStatus)
}

func TestNotificationUnknownOrderOrStatusIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.HandleNotification(ctx, notification("DORM-missing", "settlement", "10.00"))
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)

	res, err = f.svc.HandleNotification(ctx, notification("DORM-missing", "refund", "10.00"))
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)
}

func TestCheckoutErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.bookedStudent(t, "ivy@x.io", "E-5", 1500)

	_, err := f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.Zero})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	f.gw.err = errors.New("gateway down")
	_, err = f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(10)})
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.True(t, ae.Retryable())

	f.svc.Gateway = nil
	_, err = f.svc.CreateCheckout(ctx, testutil.Cashier(f.tenant), st.StudentID, dto.CreateCheckoutRequest{Amount: decimal.NewFromInt(10)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	var n int64
	require.NoError(t, f.db.Model(&model.PaymentRecordModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMidtransSignatureIsHexSha512(t *testing.T) {
	sig := MidtransSignature("DORM-1", "200", "1000.00", "key")
	assert.Len(t, sig, 128)
	assert.True(t, validSignature(sig, "DORM-1", "200", "1000.00", "key"))
	assert.False(t, validSignature(sig, "DORM-1", "200", "1000.00", ""))
	assert.False(t, validSignature("", "DORM-1", "200", "1000.00", "key"))
}

/* ===== archive ===== */

func TestPaymentRecordArchiveLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	st := f.bookedStudent(t, "jo@x.io", "F-1", 1500)
	res, err := f.svc.SetPaymentStatus(ctx, mgr, st.StudentID, dto.SetPaymentStatusRequest{Status: "paid", Amount: amount(1500)})
	require.NoError(t, err)
	id := res.Record.PaymentRecordID

	assert.True(t, apperror.Is(f.svc.Archive(ctx, testutil.Cashier(f.tenant), id), apperror.KindForbidden))
	assert.True(t, apperror.Is(f.svc.ForceDelete(ctx, mgr, id), apperror.KindConflict))

	require.NoError(t, f.svc.Archive(ctx, mgr, id))
	assert.True(t, apperror.Is(f.svc.Archive(ctx, mgr, id), apperror.KindConflict))
	archived, err := f.svc.ListArchived(ctx, f.tenant)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	require.NoError(t, f.svc.Restore(ctx, mgr, id))
	_, err = f.svc.GetRecord(ctx, mgr, id)
	require.NoError(t, err)

	require.NoError(t, f.svc.Archive(ctx, mgr, id))
	require.NoError(t, f.svc.ForceDelete(ctx, mgr, id))
	var n int64
	require.NoError(t, f.db.Unscoped().Model(&model.PaymentRecordModel{}).Where("payment_record_id = ?", id).Count(&n).Error)
	assert.Zero(t, n)
}
