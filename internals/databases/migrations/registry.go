package migrations

import (
	applicationModel "dormku_backend/internals/features/dormitory/applications/model"
	bookingModel "dormku_backend/internals/features/dormitory/bookings/model"
	cleaningModel "dormku_backend/internals/features/dormitory/cleaning/model"
	roomModel "dormku_backend/internals/features/dormitory/rooms/model"
	studentModel "dormku_backend/internals/features/dormitory/students/model"
	tenantModel "dormku_backend/internals/features/dormitory/tenants/model"
	notificationModel "dormku_backend/internals/features/finance/notifications/model"
	paymentModel "dormku_backend/internals/features/finance/payments/model"
	authModel "dormku_backend/internals/features/users/auth/model"
	userModel "dormku_backend/internals/features/users/users/model"

	"gorm.io/gorm"
)

// All returns the application's migrations in version order.
func All() []*Migration {
	return []*Migration{
		{
			Version: "20250101000001",
			Name:    "create_tenants_and_users",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&tenantModel.TenantModel{}, &userModel.UserModel{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&userModel.UserModel{}, &tenantModel.TenantModel{})
			},
		},
		{
			Version: "20250101000002",
			Name:    "create_rooms_students_bookings",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&roomModel.RoomModel{}, &studentModel.StudentModel{}, &bookingModel.BookingModel{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&bookingModel.BookingModel{}, &studentModel.StudentModel{}, &roomModel.RoomModel{})
			},
		},
		{
			Version: "20250101000003",
			Name:    "create_active_partial_indexes",
			Up:      createActiveIndexes,
			Down:    dropActiveIndexes,
		},
		{
			Version: "20250101000004",
			Name:    "create_applications",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&applicationModel.ApplicationModel{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&applicationModel.ApplicationModel{})
			},
		},
		{
			Version: "20250101000005",
			Name:    "create_payment_records_and_cashier_notifications",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&paymentModel.PaymentRecordModel{}, &notificationModel.CashierNotificationModel{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&notificationModel.CashierNotificationModel{}, &paymentModel.PaymentRecordModel{})
			},
		},
		{
			Version: "20250101000006",
			Name:    "create_cleaning",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&cleaningModel.CleaningScheduleModel{},
					&cleaningModel.CleaningScheduleStudentModel{},
					&cleaningModel.CleaningReportModel{},
				)
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&cleaningModel.CleaningReportModel{},
					&cleaningModel.CleaningScheduleStudentModel{},
					&cleaningModel.CleaningScheduleModel{},
				)
			},
		},
		{
			Version: "20250101000007",
			Name:    "create_token_blacklist",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&authModel.TokenBlacklist{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&authModel.TokenBlacklist{})
			},
		},
		{
			Version: "20250101000008",
			Name:    "create_payment_gateway_events",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&paymentModel.PaymentGatewayEventModel{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&paymentModel.PaymentGatewayEventModel{})
			},
		},
	}
}

// One active booking per student and unique room numbers per tenant, ignoring archived rows.
// MySQL has no partial indexes, so it indexes generated columns that are NULL once archived.
func createActiveIndexes(tx *gorm.DB) error {
	var stmts []string
	switch tx.Dialector.Name() {
	case "mysql":
		stmts = []string{
			`ALTER TABLE bookings ADD COLUMN booking_active_student_id CHAR(36)
			   AS (IF(booking_archived_at IS NULL, booking_student_id, NULL)) STORED`,
			`CREATE UNIQUE INDEX uq_bookings_student_active ON bookings (booking_active_student_id)`,
			`ALTER TABLE rooms ADD COLUMN room_active_number VARCHAR(30)
			   AS (IF(room_archived_at IS NULL, room_number, NULL)) STORED`,
			`CREATE UNIQUE INDEX uq_rooms_tenant_number_active ON rooms (room_tenant_id, room_active_number)`,
		}
	default:
		stmts = []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_student_active
			   ON bookings (booking_student_id) WHERE booking_archived_at IS NULL`,
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_rooms_tenant_number_active
			   ON rooms (room_tenant_id, room_number) WHERE room_archived_at IS NULL`,
		}
	}
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}

func dropActiveIndexes(tx *gorm.DB) error {
	var stmts []string
	switch tx.Dialector.Name() {
	case "mysql":
		stmts = []string{
			`DROP INDEX uq_bookings_student_active ON bookings`,
			`ALTER TABLE bookings DROP COLUMN booking_active_student_id`,
			`DROP INDEX uq_rooms_tenant_number_active ON rooms`,
			`ALTER TABLE rooms DROP COLUMN room_active_number`,
		}
	default:
		stmts = []string{
			`DROP INDEX IF EXISTS uq_bookings_student_active`,
			`DROP INDEX IF EXISTS uq_rooms_tenant_number_active`,
		}
	}
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
