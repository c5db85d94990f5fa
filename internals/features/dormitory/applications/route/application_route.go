package route

import (
	"dormku_backend/internals/features/dormitory/applications/controller"
	"dormku_backend/internals/features/dormitory/applications/service"

	"github.com/gofiber/fiber/v2"
)

// ApplicationPublicRoutes: submissions go through the given rate limiter.
func ApplicationPublicRoutes(public fiber.Router, svc *service.ApplicationService, limit fiber.Handler) {
	ctl := controller.NewApplicationController(svc)
	public.Post("/applications", limit, ctl.Submit)
}

func ApplicationManagerRoutes(manager fiber.Router, svc *service.ApplicationService) {
	ctl := controller.NewApplicationController(svc)
	g := manager.Group("/applications")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/:id/approve", ctl.Approve)
	g.Post("/:id/reject", ctl.Reject)
}
