package route

import (
	"dormku_backend/internals/features/finance/notifications/controller"
	"dormku_backend/internals/features/finance/notifications/service"

	"github.com/gofiber/fiber/v2"
)

func NotificationCashierRoutes(cashier fiber.Router, svc *service.NotificationService) {
	ctl := controller.NewNotificationController(svc)
	g := cashier.Group("/notifications")

	g.Get("/", ctl.List)
	g.Post("/read-all", ctl.MarkAllRead)
	g.Post("/:id/read", ctl.MarkRead)
}
