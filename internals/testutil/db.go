package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dormku_backend/internals/constants"
	"dormku_backend/internals/databases/migrations"
	bookingModel "dormku_backend/internals/features/dormitory/bookings/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	tenantModel "dormku_backend/internals/features/dormitory/tenants/model"
	userModel "dormku_backend/internals/features/users/users/model"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with every migration applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrations.NewMigrator(db).Up(context.Background())
	require.NoError(t, err)
	return db
}

// Clock is a settable time source for services that take Now func() time.Time.
type Clock struct{ T time.Time }

func NewClock(t time.Time) *Clock { return &Clock{T: t} }

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

/* ===== fixtures ===== */

func Tenant(t *testing.T, db *gorm.DB, name string) tenantModel.TenantModel {
	t.Helper()
	m := tenantModel.TenantModel{
		TenantName:          name,
		TenantSlug:          uuid.NewString(),
		TenantAddress:       "Jl. Kampus 1",
		TenantContactNumber: "0800",
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Room(t *testing.T, db *gorm.DB, tenantID uuid.UUID, number string, capacity int, price int64) roomModel.RoomModel {
	t.Helper()
	m := roomModel.RoomModel{
		RoomTenantID:         tenantID,
		RoomNumber:           number,
		RoomType:             "shared",
		RoomPricePerSemester: decimal.NewFromInt(price),
		RoomStatus:           roomModel.RoomStatusAvailable,
		RoomMaxCapacity:      capacity,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Student(t *testing.T, db *gorm.DB, tenantID uuid.UUID, email string) studentModel.StudentModel {
	t.Helper()
	m := studentModel.StudentModel{
		StudentTenantID:       tenantID,
		StudentName:           "Student " + email,
		StudentEmail:          email,
		StudentPresenceStatus: studentModel.PresenceIn,
		StudentPaymentStatus:  studentModel.PaymentUnpaid,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// StudentWithPassword creates a student who can log in.
func StudentWithPassword(t *testing.T, db *gorm.DB, tenantID uuid.UUID, email, password string) studentModel.StudentModel {
	t.Helper()
	hash, err := helperAuth.HashPassword(password)
	require.NoError(t, err)
	m := Student(t, db, tenantID, email)
	require.NoError(t, db.Model(&m).Update("student_password_hash", hash).Error)
	m.StudentPasswordHash = &hash
	return m
}

// Booking inserts an active booking and bumps the room's occupancy, bypassing the service.
func Booking(t *testing.T, db *gorm.DB, room roomModel.RoomModel, student studentModel.StudentModel, bookedAt *time.Time) bookingModel.BookingModel {
	t.Helper()
	m := bookingModel.BookingModel{
		BookingTenantID:      room.RoomTenantID,
		BookingStudentID:     student.StudentID,
		BookingRoomID:        room.RoomID,
		BookingSemesterCount: 1,
		BookingBookedAt:      bookedAt,
	}
	require.NoError(t, db.Create(&m).Error)
	require.NoError(t, db.Model(&roomModel.RoomModel{}).
		Where("room_id = ?", room.RoomID).
		Update("room_occupancy", gorm.Expr("room_occupancy + 1")).Error)
	return m
}

func User(t *testing.T, db *gorm.DB, role string, tenantID *uuid.UUID, email, password string) userModel.UserModel {
	t.Helper()
	hash, err := helperAuth.HashPassword(password)
	require.NoError(t, err)
	m := userModel.UserModel{
		UserName:     role + " " + email,
		UserEmail:    email,
		UserPassword: hash,
		UserRole:     role,
		UserIsActive: true,
		UserTenantID: tenantID,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

/* ===== principals ===== */

func Manager(tenantID uuid.UUID) helperAuth.Principal {
	tid := tenantID
	return helperAuth.Principal{Kind: helperAuth.KindStaff, UserID: uuid.New(), Role: constants.RoleManager, TenantID: &tid}
}

func Cashier(tenantID uuid.UUID) helperAuth.Principal {
	tid := tenantID
	return helperAuth.Principal{Kind: helperAuth.KindStaff, UserID: uuid.New(), Role: constants.RoleCashier, TenantID: &tid}
}

func Admin() helperAuth.Principal {
	return helperAuth.Principal{Kind: helperAuth.KindStaff, UserID: uuid.New(), Role: constants.RoleAdmin}
}

func StudentPrincipal(s studentModel.StudentModel) helperAuth.Principal {
	tid := s.StudentTenantID
	return helperAuth.Principal{Kind: helperAuth.KindStudent, UserID: s.StudentID, Role: constants.RoleStudent, TenantID: &tid}
}
