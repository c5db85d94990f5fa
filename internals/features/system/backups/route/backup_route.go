package route

import (
	"dormku_backend/internals/features/system/backups/controller"
	"dormku_backend/internals/features/system/backups/service"

	"github.com/gofiber/fiber/v2"
)

func BackupAdminRoutes(admin fiber.Router, svc *service.BackupService) {
	ctl := controller.NewBackupController(svc)
	g := admin.Group("/backups")

	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:name", ctl.Download)
	g.Delete("/:name", ctl.Delete)
	g.Post("/:name/restore", ctl.Restore)
}
