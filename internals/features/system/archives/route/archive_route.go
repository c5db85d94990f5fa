package route

import (
	"dormku_backend/internals/features/system/archives/controller"
	"dormku_backend/internals/features/system/archives/service"

	"github.com/gofiber/fiber/v2"
)

// ArchiveRoutes expects a group already restricted to admins and managers.
func ArchiveRoutes(archives fiber.Router, svc *service.ArchiveService) {
	ctl := controller.NewArchiveController(svc)

	archives.Get("/", ctl.List)
	archives.Post("/:entity/:id/archive", ctl.Archive)
	archives.Post("/:entity/:id/restore", ctl.Restore)
	archives.Delete("/:entity/:id", ctl.ForceDelete)
}
