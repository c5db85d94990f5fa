package route

import (
	"dormku_backend/internals/features/dormitory/bookings/controller"
	"dormku_backend/internals/features/dormitory/bookings/service"

	"github.com/gofiber/fiber/v2"
)

// BookingManagerRoutes mounts under the manager group.
// Restore and permanent delete live on the archive surface.
func BookingManagerRoutes(manager fiber.Router, svc *service.BookingService) {
	ctl := controller.NewBookingController(svc)
	g := manager.Group("/bookings")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Post("/:id/checkout", ctl.Checkout)
}
