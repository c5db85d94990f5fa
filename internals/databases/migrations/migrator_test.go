package migrations

import (
	"context"
	"testing"
	"time"

	bookingModel "dormku_backend/internals/features/dormitory/bookings/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	authModel "dormku_backend/internals/features/users/auth/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigratorUpStatusDown(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	m := NewMigrator(db)

	n, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(All()), n)

	// idempotent
	n, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	st, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, len(All()))
	for _, s := range st {
		assert.True(t, s.Applied, s.Name)
		assert.NotNil(t, s.AppliedAt)
	}

	rolled, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "create_token_blacklist", rolled.Name)
	assert.False(t, db.Migrator().HasTable(&authModel.TokenBlacklist{}))

	st, err = m.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st[len(st)-1].Applied)

	n, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDownWithNothingApplied(t *testing.T) {
	m := NewMigrator(openMemory(t))
	_, err := m.Down(context.Background())
	assert.ErrorIs(t, err, ErrNothingToRollback)
}

func TestActiveBookingIndexIgnoresArchivedRows(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	_, err := NewMigrator(db).Up(ctx)
	require.NoError(t, err)

	tenantID, studentID := uuid.New(), uuid.New()
	room := roomModel.RoomModel{RoomTenantID: tenantID, RoomNumber: "A1", RoomType: "single", RoomMaxCapacity: 2}
	require.NoError(t, db.Create(&room).Error)

	first := bookingModel.BookingModel{BookingTenantID: tenantID, BookingStudentID: studentID, BookingRoomID: room.RoomID, BookingSemesterCount: 1}
	require.NoError(t, db.Create(&first).Error)

	dup := bookingModel.BookingModel{BookingTenantID: tenantID, BookingStudentID: studentID, BookingRoomID: room.RoomID, BookingSemesterCount: 1}
	assert.Error(t, db.Create(&dup).Error)

	require.NoError(t, db.Model(&first).Update("booking_archived_at", time.Now()).Error)

	again := bookingModel.BookingModel{BookingTenantID: tenantID, BookingStudentID: studentID, BookingRoomID: room.RoomID, BookingSemesterCount: 1}
	assert.NoError(t, db.Create(&again).Error)
}

func TestRoomNumberUniquePerTenantWhileActive(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	_, err := NewMigrator(db).Up(ctx)
	require.NoError(t, err)

	tenantA, tenantB := uuid.New(), uuid.New()
	r1 := roomModel.RoomModel{RoomTenantID: tenantA, RoomNumber: "101", RoomType: "double", RoomMaxCapacity: 2}
	require.NoError(t, db.Create(&r1).Error)

	assert.Error(t, db.Create(&roomModel.RoomModel{RoomTenantID: tenantA, RoomNumber: "101", RoomType: "double"}).Error)
	assert.NoError(t, db.Create(&roomModel.RoomModel{RoomTenantID: tenantB, RoomNumber: "101", RoomType: "double"}).Error)

	require.NoError(t, db.Delete(&r1).Error)
	assert.NoError(t, db.Create(&roomModel.RoomModel{RoomTenantID: tenantA, RoomNumber: "101", RoomType: "double"}).Error)
}
