package service

import (
	"context"
	"testing"

	"dormku_backend/internals/features/dormitory/rooms/dto"
	"dormku_backend/internals/features/dormitory/rooms/model"
	"dormku_backend/internals/helpers/apperror"
	"dormku_backend/internals/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestCreateRoomNumberUniquePerTenant(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	a := testutil.Tenant(t, db, "North")
	b := testutil.Tenant(t, db, "South")

	in := dto.CreateRoomRequest{RoomNumber: "A-101", RoomType: "double", RoomPricePerSemester: decimal.NewFromInt(1200), RoomMaxCapacity: intp(2)}
	res, err := svc.Create(ctx, testutil.Manager(a.TenantID), in)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusAvailable, res.RoomStatus)
	assert.Equal(t, 2, res.AvailableSlots)

	_, err = svc.Create(ctx, testutil.Manager(a.TenantID), in)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.Create(ctx, testutil.Manager(b.TenantID), in)
	require.NoError(t, err)
}

func TestCreateRoomRejectsNegativePriceAndNonManagers(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	tenant := testutil.Tenant(t, db, "North")

	_, err := svc.Create(context.Background(), testutil.Manager(tenant.TenantID), dto.CreateRoomRequest{
		RoomNumber: "A-1", RoomType: "single", RoomPricePerSemester: decimal.NewFromInt(-1), RoomMaxCapacity: intp(1),
	})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.Create(context.Background(), testutil.Cashier(tenant.TenantID), dto.CreateRoomRequest{
		RoomNumber: "A-1", RoomType: "single", RoomMaxCapacity: intp(1),
	})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestRoomCapacityMustBePresentAndNotNegative(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)

	for _, capacity := range []*int{nil, intp(-1)} {
		_, err := svc.Create(ctx, mgr, dto.CreateRoomRequest{RoomNumber: "A-1", RoomType: "single", RoomMaxCapacity: capacity})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	}
	var n int64
	require.NoError(t, db.Model(&model.RoomModel{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	room := testutil.Room(t, db, tenant.TenantID, "A-2", 2, 1000)
	_, err := svc.Update(ctx, mgr, room.RoomID, dto.UpdateRoomRequest{RoomMaxCapacity: intp(-3)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUpdateCapacityNotBelowOccupancy(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	room := testutil.Room(t, db, tenant.TenantID, "A-1", 3, 1000)
	for _, e := range []string{"a@x.io", "b@x.io"} {
		testutil.Booking(t, db, room, testutil.Student(t, db, tenant.TenantID, e), nil)
	}

	_, err := svc.Update(ctx, mgr, room.RoomID, dto.UpdateRoomRequest{RoomMaxCapacity: intp(1)})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	res, err := svc.Update(ctx, mgr, room.RoomID, dto.UpdateRoomRequest{RoomMaxCapacity: intp(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RoomMaxCapacity)
	assert.Equal(t, 0, res.AvailableSlots)

	maint := "maintenance"
	res, err = svc.Update(ctx, mgr, room.RoomID, dto.UpdateRoomRequest{RoomStatus: &maint})
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusMaintenance, res.RoomStatus)
}

func TestRoomCrossTenantAccessIsForbidden(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	a := testutil.Tenant(t, db, "North")
	b := testutil.Tenant(t, db, "South")
	room := testutil.Room(t, db, a.TenantID, "A-1", 2, 1000)

	_, err := svc.Get(ctx, testutil.Manager(b.TenantID), room.RoomID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.Update(ctx, testutil.Manager(b.TenantID), room.RoomID, dto.UpdateRoomRequest{RoomMaxCapacity: intp(9)})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	got, err := svc.Get(ctx, testutil.Manager(a.TenantID), room.RoomID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RoomMaxCapacity)

	list, err := svc.List(ctx, testutil.Manager(b.TenantID), dto.ListRoomsQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRoomArchiveLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	busy := testutil.Room(t, db, tenant.TenantID, "A-1", 1, 1000)
	testutil.Booking(t, db, busy, testutil.Student(t, db, tenant.TenantID, "s@x.io"), nil)
	empty := testutil.Room(t, db, tenant.TenantID, "A-2", 1, 1000)

	assert.True(t, apperror.Is(svc.Archive(ctx, mgr, busy.RoomID), apperror.KindConflict))
	assert.True(t, apperror.Is(svc.ForceDelete(ctx, mgr, empty.RoomID), apperror.KindConflict))

	require.NoError(t, svc.Archive(ctx, mgr, empty.RoomID))
	assert.True(t, apperror.Is(svc.Archive(ctx, mgr, empty.RoomID), apperror.KindConflict))

	_, err := svc.Get(ctx, mgr, empty.RoomID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	archived, err := svc.ListArchived(ctx, tenant.TenantID)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.NotNil(t, archived[0].RoomArchivedAt)

	// the number is free again while the old room is archived
	_, err = svc.Create(ctx, mgr, dto.CreateRoomRequest{RoomNumber: "A-2", RoomType: "single", RoomMaxCapacity: intp(1)})
	require.NoError(t, err)
	assert.True(t, apperror.Is(svc.Restore(ctx, mgr, empty.RoomID), apperror.KindConflict))

	require.NoError(t, svc.ForceDelete(ctx, mgr, empty.RoomID))
	archived, err = svc.ListArchived(ctx, tenant.TenantID)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestRoomRestoreAndReferencedForceDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	tenant := testutil.Tenant(t, db, "North")
	mgr := testutil.Manager(tenant.TenantID)
	room := testutil.Room(t, db, tenant.TenantID, "A-1", 1, 1000)
	b := testutil.Booking(t, db, room, testutil.Student(t, db, tenant.TenantID, "s@x.io"), nil)

	// archived booking still references the room
	require.NoError(t, db.Delete(&b).Error)
	require.NoError(t, db.Model(&room).Update("room_occupancy", 0).Error)
	require.NoError(t, svc.Archive(ctx, mgr, room.RoomID))
	assert.True(t, apperror.Is(svc.ForceDelete(ctx, mgr, room.RoomID), apperror.KindConflict))

	require.NoError(t, svc.Restore(ctx, mgr, room.RoomID))
	got, err := svc.Get(ctx, mgr, room.RoomID)
	require.NoError(t, err)
	assert.Nil(t, got.RoomArchivedAt)
	assert.True(t, apperror.Is(svc.Restore(ctx, mgr, room.RoomID), apperror.KindConflict))
}
