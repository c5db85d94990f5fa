package route

import (
	"dormku_backend/internals/features/users/users/controller"
	"dormku_backend/internals/features/users/users/service"

	"github.com/gofiber/fiber/v2"
)

func UserAdminRoutes(admin fiber.Router, svc *service.UserService) {
	ctl := controller.NewUserController(svc)
	g := admin.Group("/users")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Patch("/:id/toggle-active", ctl.ToggleActive)
	g.Put("/:id/password", ctl.ResetPassword)
}
