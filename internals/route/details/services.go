package details

import (
	"log"

	"dormku_backend/internals/configs"
	database "dormku_backend/internals/databases"
	applicationSvc "dormku_backend/internals/features/dormitory/applications/service"
	bookingSvc "dormku_backend/internals/features/dormitory/bookings/service"
	cleaningSvc "dormku_backend/internals/features/dormitory/cleaning/service"
	roomSvc "dormku_backend/internals/features/dormitory/rooms/service"
	studentSvc "dormku_backend/internals/features/dormitory/students/service"
	tenantSvc "dormku_backend/internals/features/dormitory/tenants/service"
	notificationSvc "dormku_backend/internals/features/finance/notifications/service"
	paymentSvc "dormku_backend/internals/features/finance/payments/service"
	archiveSvc "dormku_backend/internals/features/system/archives/service"
	backupSvc "dormku_backend/internals/features/system/backups/service"
	dashboardSvc "dormku_backend/internals/features/system/dashboard/service"
	authSvc "dormku_backend/internals/features/users/auth/service"
	userSvc "dormku_backend/internals/features/users/users/service"
	helperOSS "dormku_backend/internals/helpers/oss"
	"dormku_backend/internals/services/email"

	"gorm.io/gorm"
)

const backupPrefix = "backups"

// Services holds one instance of every feature service, shared by the HTTP routes,
// the cron jobs and dormctl.
type Services struct {
	Tenants       *tenantSvc.TenantService
	Rooms         *roomSvc.RoomService
	Students      *studentSvc.StudentService
	Bookings      *bookingSvc.BookingService
	Applications  *applicationSvc.ApplicationService
	Cleaning      *cleaningSvc.CleaningService
	Payments      *paymentSvc.PaymentService
	Notifications *notificationSvc.NotificationService
	Auth          *authSvc.AuthService
	Users         *userSvc.UserService
	Archives      *archiveSvc.ArchiveService
	Dashboard     *dashboardSvc.DashboardService
	Backups       *backupSvc.BackupService
}

func NewServices(db *gorm.DB, cfg *configs.AppConfig) (*Services, error) {
	mailer := email.New(cfg.SendgridAPIKey, cfg.AppName, cfg.MailFrom)

	var gateway paymentSvc.Gateway
	if cfg.MidtransServerKey != "" {
		gateway = paymentSvc.NewSnapGateway(cfg.MidtransServerKey, cfg.MidtransUseProd)
	} else {
		log.Println("[WARN] MIDTRANS_SERVER_KEY is not set, online checkout is disabled")
	}

	sqlxDB, err := database.SQLX(db)
	if err != nil {
		return nil, err
	}

	backups, err := newBackupService(db, cfg)
	if err != nil {
		return nil, err
	}

	s := &Services{
		Tenants:       tenantSvc.NewTenantService(db, cfg.DefaultDormAddress, cfg.DefaultDormContact),
		Rooms:         roomSvc.NewRoomService(db),
		Students:      studentSvc.NewStudentService(db),
		Bookings:      bookingSvc.NewBookingService(db, mailer, cfg.MonthlyRate),
		Applications:  applicationSvc.NewApplicationService(db),
		Cleaning:      cleaningSvc.NewCleaningService(db),
		Payments:      paymentSvc.NewPaymentService(db, gateway, cfg.MidtransServerKey),
		Notifications: notificationSvc.NewNotificationService(db),
		Auth:          authSvc.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, cfg.AdminSetupKey),
		Users:         userSvc.NewUserService(db),
		Dashboard:     dashboardSvc.NewDashboardService(sqlxDB),
		Backups:       backups,
	}
	s.Archives = archiveSvc.NewArchiveService(s.Tenants, s.Rooms, s.Students, s.Bookings, s.Payments)
	return s, nil
}

func newBackupService(db *gorm.DB, cfg *configs.AppConfig) (*backupSvc.BackupService, error) {
	dumper, err := backupSvc.NewDumper(cfg.DB, db)
	if err != nil {
		return nil, err
	}

	var remote backupSvc.Remote
	if cfg.Backup.OSSEnabled() {
		oss, err := helperOSS.NewOSSService(helperOSS.OSSConfig{
			Endpoint:  cfg.Backup.OSSEndpoint,
			AccessKey: cfg.Backup.OSSAccessKey,
			SecretKey: cfg.Backup.OSSSecretKey,
			Bucket:    cfg.Backup.OSSBucket,
			Prefix:    backupPrefix,
		})
		if err != nil {
			// off-site copies are optional; local backups still run
			log.Printf("[WARN] backup OSS disabled: %v", err)
		} else {
			remote = oss
		}
	}
	return backupSvc.NewBackupService(cfg.Backup.Dir, cfg.Backup.Retention, dumper, remote), nil
}
