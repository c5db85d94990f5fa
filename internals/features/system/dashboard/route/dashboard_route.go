package route

import (
	"dormku_backend/internals/features/system/dashboard/controller"
	"dormku_backend/internals/features/system/dashboard/service"

	"github.com/gofiber/fiber/v2"
)

func DashboardRoutes(dashboard fiber.Router, svc *service.DashboardService) {
	ctl := controller.NewDashboardController(svc)
	dashboard.Get("/", ctl.Get)
}
