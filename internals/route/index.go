package routes

import (
	"log"
	"time"

	"dormku_backend/internals/constants"
	authMiddleware "dormku_backend/internals/middlewares/auth"
	middlewares "dormku_backend/internals/middlewares"
	routeDetails "dormku_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

// SetupRoutes mounts every route group on app. Role guards sit on the groups;
// tenant scoping is decided inside the services.
func SetupRoutes(app *fiber.App, db *gorm.DB, s *routeDetails.Services) {
	startTime = time.Now()

	BaseRoutes(app, db)

	protect := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Auth:                s.Auth,
		AllowCookieFallback: true,
	})

	api := app.Group("/api")

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := api.Group("/public")
	routeDetails.DormitoryPublicRoutes(public, s, middlewares.ApplicationRateLimiter())
	routeDetails.FinanceWebhookRoutes(api, s)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AUTH group...")
	routeDetails.AuthRoutes(api.Group("/auth"), s, middlewares.LoginRateLimiter(), protect)

	// ===================== ADMIN (global) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := api.Group("/admin",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("the admin area"), constants.AdminOnly),
	)
	routeDetails.DormitoryAdminRoutes(admin, s)
	routeDetails.UserAdminRoutes(admin, s)
	routeDetails.SystemAdminRoutes(admin, s)

	// ===================== MANAGER (per tenant) =====================
	log.Println("[INFO] Setting up MANAGER group...")
	manager := api.Group("/manager",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorManager("dormitory management"), constants.ManagerOnly),
	)
	routeDetails.DormitoryManagerRoutes(manager, s)

	// ===================== CASHIER (per tenant) =====================
	log.Println("[INFO] Setting up CASHIER group...")
	cashier := api.Group("/cashier",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorFinance("billing"), constants.FinanceRoles),
	)
	routeDetails.FinanceCashierRoutes(cashier, s)

	// ===================== STUDENT =====================
	log.Println("[INFO] Setting up STUDENT group...")
	student := api.Group("/student",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorStudent("the student area"), constants.StudentOnly),
	)
	routeDetails.DormitoryStudentRoutes(student, s)

	// ===================== SHARED STAFF =====================
	archives := api.Group("/archives",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorStaff("archives"), constants.ArchiveRoles),
	)
	routeDetails.ArchiveRoutes(archives, s)

	dashboard := api.Group("/dashboard",
		protect,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorStaff("the dashboard"), constants.StaffRoles),
	)
	routeDetails.DashboardRoutes(dashboard, s)
}
