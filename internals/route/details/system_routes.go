package details

import (
	archiveRoute "dormku_backend/internals/features/system/archives/route"
	backupRoute "dormku_backend/internals/features/system/backups/route"
	dashboardRoute "dormku_backend/internals/features/system/dashboard/route"

	"github.com/gofiber/fiber/v2"
)

func SystemAdminRoutes(r fiber.Router, s *Services) {
	backupRoute.BackupAdminRoutes(r, s.Backups)
}

func ArchiveRoutes(r fiber.Router, s *Services) {
	archiveRoute.ArchiveRoutes(r, s.Archives)
}

func DashboardRoutes(r fiber.Router, s *Services) {
	dashboardRoute.DashboardRoutes(r, s.Dashboard)
}
