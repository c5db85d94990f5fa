package route

import (
	"dormku_backend/internals/features/dormitory/tenants/controller"
	"dormku_backend/internals/features/dormitory/tenants/service"

	"github.com/gofiber/fiber/v2"
)

func TenantPublicRoutes(public fiber.Router, svc *service.TenantService) {
	ctl := controller.NewTenantController(svc)
	public.Get("/dormitories", ctl.PublicList)
}

func TenantAdminRoutes(admin fiber.Router, svc *service.TenantService) {
	ctl := controller.NewTenantController(svc)
	g := admin.Group("/dormitories")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Archive)
}
