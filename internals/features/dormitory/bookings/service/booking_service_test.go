package service

import (
	"context"
	"testing"
	"time"

	"dormku_backend/internals/features/dormitory/bookings/dto"
	"dormku_backend/internals/features/dormitory/bookings/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	notificationModel "dormku_backend/internals/features/finance/notifications/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/services/email"
	"dormku_backend/internals/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *BookingService
	clock  *testutil.Clock
	mailer *email.MemoryMailer
	tenant uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	clock := testutil.NewClock(time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))
	mailer := &email.MemoryMailer{}
	svc := NewBookingService(db, mailer, decimal.NewFromInt(400))
	svc.Now = clock.Now
	tenant := testutil.Tenant(t, db, "North Hall")
	return &fixture{db: db, svc: svc, clock: clock, mailer: mailer, tenant: tenant.TenantID}
}

func (f *fixture) occupancy(t *testing.T, roomID uuid.UUID) int {
	var r roomModel.RoomModel
	require.NoError(t, f.db.Unscoped().Where("room_id = ?", roomID).First(&r).Error)
	return r.RoomOccupancy
}

func (f *fixture) activeBookings(t *testing.T, studentID uuid.UUID) int64 {
	var n int64
	require.NoError(t, f.db.Model(&model.BookingModel{}).Where("booking_student_id = ?", studentID).Count(&n).Error)
	return n
}

func TestCreateFillsRoomThenRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 2, 1500)

	for i, mail := range []string{"a@x.io", "b@x.io"} {
		st := testutil.Student(t, f.db, f.tenant, mail)
		res, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: 2})
		require.NoError(t, err)
		assert.True(t, res.Fee.Equal(decimal.NewFromInt(3000)), res.Fee.String())
		require.NotNil(t, res.BookingBookedAt)
		assert.True(t, f.clock.T.Equal(*res.BookingBookedAt))
		assert.Equal(t, i+1, f.occupancy(t, room.RoomID))
	}

	third := testutil.Student(t, f.db, f.tenant, "c@x.io")
	_, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: third.StudentID, RoomID: room.RoomID, SemesterCount: 1})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "room is full")

	assert.Equal(t, 2, f.occupancy(t, room.RoomID))
	assert.Equal(t, int64(0), f.activeBookings(t, third.StudentID))
	assert.Equal(t, 2, f.mailer.Count())
}

func TestCreateRejectsSecondActiveBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	r1 := testutil.Room(t, f.db, f.tenant, "A-1", 2, 1000)
	r2 := testutil.Room(t, f.db, f.tenant, "A-2", 2, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")

	_, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: r1.RoomID, SemesterCount: 1})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: r2.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, int64(1), f.activeBookings(t, st.StudentID))
	assert.Equal(t, 0, f.occupancy(t, r2.RoomID))

	// the active booking is reported before the room lookup
	require.NoError(t, f.db.Delete(&r2).Error)
	_, err = f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: r2.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "active booking")
}

func TestCreateValidatesSemesterCount(t *testing.T) {
	f := newFixture(t)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 2, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")

	for _, n := range []int{0, 11} {
		_, err := f.svc.Create(context.Background(), testutil.Manager(f.tenant), dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: n})
		assert.True(t, apperror.Is(err, apperror.KindValidation), "semesters=%d", n)
	}
}

func TestCreateCrossTenantIsForbiddenWithoutMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.Tenant(t, f.db, "South Hall")
	room := testutil.Room(t, f.db, f.tenant, "A-1", 2, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")

	_, err := f.svc.Create(ctx, testutil.Manager(other.TenantID), dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.Create(ctx, testutil.Cashier(f.tenant), dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.Create(ctx, testutil.Admin(), dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	assert.Equal(t, 0, f.occupancy(t, room.RoomID))
	assert.Equal(t, int64(0), f.activeBookings(t, st.StudentID))
}

func TestCreateOnArchivedOrMaintenanceRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")

	archived := testutil.Room(t, f.db, f.tenant, "A-1", 2, 1000)
	require.NoError(t, f.db.Delete(&archived).Error)
	_, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: archived.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	maint := testutil.Room(t, f.db, f.tenant, "A-2", 2, 1000)
	require.NoError(t, f.db.Model(&maint).Update("room_status", roomModel.RoomStatusMaintenance).Error)
	_, err = f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: maint.RoomID, SemesterCount: 1})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestCreateSucceedsWhenMailFails(t *testing.T) {
	f := newFixture(t)
	f.mailer.Fail = email.ErrMailerDown
	room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")

	_, err := f.svc.Create(context.Background(), testutil.Manager(f.tenant), dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, f.occupancy(t, room.RoomID))
}

func TestUpdateMovesOccupancyBetweenRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	full := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	free := testutil.Room(t, f.db, f.tenant, "A-2", 1, 2000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")

	b, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: full.RoomID, SemesterCount: 1})
	require.NoError(t, err)

	// same room at capacity is not checked against itself
	three := 3
	sameRoom := full.RoomID
	res, err := f.svc.Update(ctx, mgr, b.BookingID, dto.UpdateBookingRequest{RoomID: &sameRoom, SemesterCount: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, res.BookingSemesterCount)
	assert.Equal(t, 1, f.occupancy(t, full.RoomID))

	target := free.RoomID
	res, err = f.svc.Update(ctx, mgr, b.BookingID, dto.UpdateBookingRequest{RoomID: &target})
	require.NoError(t, err)
	assert.Equal(t, free.RoomID, res.BookingRoomID)
	assert.True(t, res.Fee.Equal(decimal.NewFromInt(6000)), res.Fee.String())
	assert.Equal(t, 0, f.occupancy(t, full.RoomID))
	assert.Equal(t, 1, f.occupancy(t, free.RoomID))

	// moving into a full room fails and leaves both counters alone
	other := testutil.Student(t, f.db, f.tenant, "o@x.io")
	ob, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: other.StudentID, RoomID: full.RoomID, SemesterCount: 1})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, mgr, ob.BookingID, dto.UpdateBookingRequest{RoomID: &target})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, 1, f.occupancy(t, full.RoomID))
	assert.Equal(t, 1, f.occupancy(t, free.RoomID))
}

func TestArchiveSnapshotsStay(t *testing.T) {
	cases := []struct {
		name         string
		stayed       time.Duration
		legacy       bool
		days, months int
		cost         int64
	}{
		{"29 days", 29 * 24 * time.Hour, false, 29, 1, 400},
		{"31 days", 31 * 24 * time.Hour, false, 31, 2, 800},
		{"no booked_at", 0, true, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			mgr := testutil.Manager(f.tenant)
			room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
			st := testutil.Student(t, f.db, f.tenant, "s@x.io")

			var bookingID uuid.UUID
			if tc.legacy {
				bookingID = testutil.Booking(t, f.db, room, st, nil).BookingID
			} else {
				b, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: room.RoomID, SemesterCount: 1})
				require.NoError(t, err)
				bookingID = b.BookingID
				f.clock.Advance(tc.stayed)
			}

			res, err := f.svc.Archive(ctx, mgr, bookingID)
			require.NoError(t, err)
			assert.Equal(t, tc.days, res.Notification.CashierNotificationDaysStayed)
			assert.Equal(t, tc.months, res.Notification.CashierNotificationMonthsStayed)
			assert.True(t, res.Notification.CashierNotificationCalculatedCost.Equal(decimal.NewFromInt(tc.cost)))
			assert.Equal(t, "A-1", res.Notification.CashierNotificationRoomNumber)
			assert.NotNil(t, res.Booking.BookingArchivedAt)

			assert.Equal(t, 0, f.occupancy(t, room.RoomID))
			assert.Equal(t, int64(0), f.activeBookings(t, st.StudentID))

			var n int64
			require.NoError(t, f.db.Model(&notificationModel.CashierNotificationModel{}).Count(&n).Error)
			assert.Equal(t, int64(1), n)
		})
	}
}

func TestArchiveTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")
	b := testutil.Booking(t, f.db, room, st, &f.clock.T)

	_, err := f.svc.Archive(ctx, mgr, b.BookingID)
	require.NoError(t, err)
	_, err = f.svc.Archive(ctx, mgr, b.BookingID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	var n int64
	require.NoError(t, f.db.Model(&notificationModel.CashierNotificationModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestArchiveByOtherTenantManagerIsForbidden(t *testing.T) {
	f := newFixture(t)
	other := testutil.Tenant(t, f.db, "South Hall")
	room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")
	b := testutil.Booking(t, f.db, room, st, &f.clock.T)

	_, err := f.svc.Archive(context.Background(), testutil.Manager(other.TenantID), b.BookingID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, 1, f.occupancy(t, room.RoomID))
	assert.Equal(t, int64(1), f.activeBookings(t, st.StudentID))
}

func TestRestoreRechecksCapacityAndActiveBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	other := testutil.Room(t, f.db, f.tenant, "A-2", 1, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")
	st2 := testutil.Student(t, f.db, f.tenant, "t@x.io")

	b := testutil.Booking(t, f.db, room, st, &f.clock.T)
	_, err := f.svc.Archive(ctx, mgr, b.BookingID)
	require.NoError(t, err)

	// room taken meanwhile
	taken, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st2.StudentID, RoomID: room.RoomID, SemesterCount: 1})
	require.NoError(t, err)
	_, err = f.svc.Restore(ctx, mgr, b.BookingID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	// room free again, but the student booked elsewhere
	_, err = f.svc.Archive(ctx, mgr, taken.BookingID)
	require.NoError(t, err)
	elsewhere, err := f.svc.Create(ctx, mgr, dto.CreateBookingRequest{StudentID: st.StudentID, RoomID: other.RoomID, SemesterCount: 1})
	require.NoError(t, err)
	_, err = f.svc.Restore(ctx, mgr, b.BookingID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = f.svc.Archive(ctx, mgr, elsewhere.BookingID)
	require.NoError(t, err)
	res, err := f.svc.Restore(ctx, mgr, b.BookingID)
	require.NoError(t, err)
	assert.Nil(t, res.BookingArchivedAt)
	assert.Equal(t, 1, f.occupancy(t, room.RoomID))

	list, err := f.svc.List(ctx, mgr)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.BookingID, list[0].BookingID)
}

func TestRestoreActiveBookingIsConflict(t *testing.T) {
	f := newFixture(t)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")
	b := testutil.Booking(t, f.db, room, st, &f.clock.T)

	_, err := f.svc.Restore(context.Background(), testutil.Manager(f.tenant), b.BookingID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestForceDeleteOnlyArchived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mgr := testutil.Manager(f.tenant)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 1, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")
	b := testutil.Booking(t, f.db, room, st, &f.clock.T)

	assert.True(t, apperror.Is(f.svc.ForceDelete(ctx, mgr, b.BookingID), apperror.KindConflict))

	_, err := f.svc.Archive(ctx, mgr, b.BookingID)
	require.NoError(t, err)

	archived, err := f.svc.ListArchived(ctx, f.tenant)
	require.NoError(t, err)
	assert.Len(t, archived, 1)

	require.NoError(t, f.svc.ForceDelete(ctx, mgr, b.BookingID))

	var n int64
	require.NoError(t, f.db.Unscoped().Model(&model.BookingModel{}).Where("booking_id = ?", b.BookingID).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	archived, err = f.svc.ListArchived(ctx, f.tenant)
	require.NoError(t, err)
	assert.Empty(t, archived)

	assert.True(t, apperror.Is(f.svc.ForceDelete(ctx, mgr, b.BookingID), apperror.KindNotFound))
}

func TestRecountOccupancy(t *testing.T) {
	f := newFixture(t)
	room := testutil.Room(t, f.db, f.tenant, "A-1", 3, 1000)
	st := testutil.Student(t, f.db, f.tenant, "s@x.io")
	testutil.Booking(t, f.db, room, st, &f.clock.T)

	require.NoError(t, f.db.Model(&room).Update("room_occupancy", 3).Error)

	n, err := f.svc.RecountOccupancy(context.Background(), &f.tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, f.occupancy(t, room.RoomID))
}
