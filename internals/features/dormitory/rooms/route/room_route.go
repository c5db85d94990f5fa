package route

import (
	"dormku_backend/internals/features/dormitory/rooms/controller"
	"dormku_backend/internals/features/dormitory/rooms/service"

	"github.com/gofiber/fiber/v2"
)

func RoomManagerRoutes(manager fiber.Router, svc *service.RoomService) {
	ctl := controller.NewRoomController(svc)
	g := manager.Group("/rooms")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Archive)
}
